// Package prompt asks the user to pick a display and a webcam on the terminal.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/castarea/castarea"
	"github.com/castarea/castarea/camera"
)

// Prompter reads selections from r and prints menus to w.
type Prompter struct {
	r *bufio.Reader
	w io.Writer
}

// New returns a Prompter reading from r and writing to w.
func New(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{r: bufio.NewReader(r), w: w}
}

// ReadIndex reads lines until one holds an integer between first and last
// inclusive, reprompting after invalid input.
func (p *Prompter) ReadIndex(first, last int) (int, error) {
	for {
		line, err := p.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return 0, errors.New("no selection, input closed")
			}
			return 0, errors.Wrap(err, "reading selection")
		}
		index, perr := strconv.Atoi(strings.TrimSpace(line))
		if perr == nil && index >= first && index <= last {
			return index, nil
		}
		if err == io.EOF {
			return 0, errors.Errorf("invalid index %q", strings.TrimSpace(line))
		}
		fmt.Fprint(p.w, "Invalid index, try again\n> ")
	}
}

// SelectDisplay lists displays and returns the one the user picks.
func (p *Prompter) SelectDisplay(displays []castarea.Display) (castarea.Display, error) {
	if len(displays) == 0 {
		return castarea.Display{}, errors.New("no displays to select from")
	}
	fmt.Fprintln(p.w, "Select a display to screencast:")
	for i, d := range displays {
		fmt.Fprintf(p.w, "[%d] %s\n", i, d.Describe())
	}
	fmt.Fprint(p.w, "> ")
	i, err := p.ReadIndex(0, len(displays)-1)
	if err != nil {
		return castarea.Display{}, err
	}
	return displays[i], nil
}

// SelectWebcam lists webcams and returns the one the user picks, or nil if
// the user wants no webcam.
func (p *Prompter) SelectWebcam(webcams []camera.Device) (*camera.Device, error) {
	fmt.Fprintln(p.w, "Select a webcam to overlay:")
	fmt.Fprintln(p.w, "[0] No webcam")
	for i, d := range webcams {
		fmt.Fprintf(p.w, "[%d] %s\n", i+1, d.Name)
	}
	fmt.Fprint(p.w, "> ")
	i, err := p.ReadIndex(0, len(webcams))
	if err != nil {
		return nil, err
	}
	if i == 0 {
		return nil, nil
	}
	return &webcams[i-1], nil
}
