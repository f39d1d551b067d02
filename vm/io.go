package vm

import (
	"io"
	"strings"
)

// writeOut writes s to the instance's output, surfacing the writer's
// first sticky error (spec's IOError).
func (i *Instance) writeOut(s string) error {
	_, err := io.WriteString(i.out, s)
	return err
}

// readLine reads one line from the instance's input, trimming a single
// trailing line terminator (\n, or \r\n). End-of-stream with no bytes
// read yields an empty string and no error, per spec §4.4 "inpln".
func (i *Instance) readLine() (string, error) {
	line, err := i.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}
