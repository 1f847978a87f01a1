// Command gatewaykey reads a gateway shared secret from stdin and prints the
// bcrypt hash to configure as AUTH_GATEWAY_KEY_HASH.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/roadwatch/hazard-service/internal/auth"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Parse()

	if err := run(os.Stdin, os.Stdout, *cost); err != nil {
		log.Fatalf("gatewaykey: %v", err)
	}
}

func run(in io.Reader, out io.Writer, cost int) error {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read key: %w", err)
	}
	key := strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(key) == "" {
		return errors.New("empty key on stdin")
	}

	hashed, err := auth.HashGatewayKey(key, cost)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, hashed)
	return err
}
