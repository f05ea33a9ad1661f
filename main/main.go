package main

import (
	"context"
	"io"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/rawbytedev/pinbuf"
	"github.com/rawbytedev/pinbuf/pkg/cursor"
)

func main() {
	go func() {
		log.Println(http.ListenAndServe("localhost:6060", nil))
	}()
	f, err := os.Create("mem.prof")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	runtime.MemProfileRate = 1

	ctx := context.Background()
	payload := []byte("qwertyuiopasdfghjkl")
	p := pinbuf.Box(pinbuf.Wrap(cursor.New(nil, cursor.WithYields(1))))
	defer p.Unpin()
	buf := make([]byte, len(payload))
	for i := 0; i < 10000; i++ {
		p.SetPosition(0)
		p.AwaitWrite(ctx, payload)
		p.AwaitSeek(ctx, 0, io.SeekStart)
		p.AwaitRead(ctx, buf)
	}
	pprof.WriteHeapProfile(f)
	time.Sleep(5 * time.Minute)
}
