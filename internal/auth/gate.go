package auth

import (
	"bufio"
	"context"
	"io"
	"log"
)

// OperatorGate blocks the run while a human clears a security challenge in
// the live browser window.
type OperatorGate interface {
	AwaitResolution(ctx context.Context) error
}

// ConsoleGate waits for a newline on the given reader, typically stdin.
type ConsoleGate struct {
	In io.Reader
}

func (g *ConsoleGate) AwaitResolution(ctx context.Context) error {
	log.Printf("👤 solve the challenge in the browser window, then press Enter to continue")

	done := make(chan error, 1)
	go func() {
		line, err := bufio.NewReader(g.In).ReadString('\n')
		if err == io.EOF && line != "" {
			// final unterminated line still counts as a keypress
			err = nil
		}
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// ChannelGate resumes when its channel is signalled or closed. Meant for
// embedding the scraper in a larger program that clears challenges out of
// band.
type ChannelGate struct {
	Resume <-chan struct{}
}

func (g *ChannelGate) AwaitResolution(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-g.Resume:
		return nil
	}
}
