package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

type Prompter struct {
	reader *bufio.Reader
	writer io.Writer
}

func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

var stdPrompter = NewPrompter(os.Stdin, os.Stdout)

func Ask(question string, allowEmpty bool, validate func(string) (bool, string)) (string, error) {
	return stdPrompter.Ask(question, allowEmpty, validate)
}

func (p *Prompter) Ask(question string, allowEmpty bool, validate func(string) (bool, string)) (string, error) {
	_, _ = fmt.Fprintln(p.writer, "")

	for {
		_, _ = fmt.Fprint(p.writer, question)

		result, err := p.reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && result != "") {
			return result, errors.WithMessage(err, "failed to read string")
		}
		result = strings.TrimSpace(result)

		if allowEmpty && result == "" {
			return result, nil
		}

		if validate != nil {
			ok, message := validate(result)
			if !ok {
				_, _ = fmt.Fprintln(p.writer, message)

				continue
			}
		}

		if result != "" {
			return result, nil
		}
	}
}
