package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// OneShot records a single message and prints the reply
func OneShot(ctx context.Context, h Handler, msg string, out io.Writer) error {
	resp, err := h.Handle(ctx, msg)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, resp.Reply)
	return nil
}

// Interactive is the plain line REPL used when stdin is not a terminal
func Interactive(ctx context.Context, h Handler, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "📒 Lifetrack - Interactive Mode")
	fmt.Fprintln(out, "Gõ 'exit' để thoát, 'help' để xem lệnh")
	fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "👤 Bạn: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "exit", "quit", "q":
			fmt.Fprintln(out, "👋 Tạm biệt!")
			return nil
		case "help", "h":
			PrintInteractiveHelp(out)
			continue
		case "clear", "cls":
			fmt.Fprint(out, "\033[H\033[2J")
			continue
		}

		resp, err := h.Handle(ctx, input)
		if err != nil {
			fmt.Fprintf(out, "❌ Lỗi: %v\n\n", err)
			continue
		}
		fmt.Fprintf(out, "📒 Lifetrack: %s\n\n", resp.Reply)
	}
}
