package maplog

import (
	"os"
	"sync"
	"testing"
)

func TestWriter_EnqueuePreservesOrder(t *testing.T) {
	f, err := os.CreateTemp("", "maplog-writer-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	w := newWriter(f, nil)
	w.enqueue([]byte("a"))
	w.enqueue([]byte("b"))
	w.enqueue([]byte("c"))
	w.close()

	got, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "abc" {
		t.Fatalf("got %q, want %q", got, "abc")
	}
}

func TestWriter_DrainWaitsForPriorTasks(t *testing.T) {
	f, err := os.CreateTemp("", "maplog-writer-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	w := newWriter(f, nil)
	for i := 0; i < 50; i++ {
		w.enqueue([]byte("x"))
	}
	w.drain()

	got, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 50 {
		t.Fatalf("after drain, file has %d bytes; want 50", len(got))
	}
	w.close()
}

func TestWriter_ErrorSinkReceivesWriteFailures(t *testing.T) {
	f, err := os.CreateTemp("", "maplog-writer-*")
	if err != nil {
		t.Fatal(err)
	}
	name := f.Name()
	defer os.Remove(name)
	f.Close() // closed file: subsequent writes fail

	var mu sync.Mutex
	var got error
	w := newWriter(f, func(err error) {
		mu.Lock()
		got = err
		mu.Unlock()
	})
	w.enqueue([]byte("x"))
	w.drain()
	w.close()

	mu.Lock()
	defer mu.Unlock()
	if got == nil {
		t.Fatal("expected the error sink to receive a write failure on a closed file")
	}
}
