// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package report

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
)

// Writer encodes reports as indented XML.
type Writer struct {
	w   io.Writer
	enc *xml.Encoder
}

// NewWriter returns a Writer that encodes to w.
func NewWriter(w io.Writer) *Writer {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	return &Writer{
		w:   w,
		enc: enc,
	}
}

// Write encodes r preceded by the XML header.
func (w *Writer) Write(r Report) error {
	if _, err := io.WriteString(w.w, xml.Header); err != nil {
		return err
	}
	if err := w.enc.Encode(r); err != nil {
		return err
	}
	if err := w.enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w.w, "\n")
	return err
}

// WriteFile writes r to path, replacing any existing file.
func WriteFile(path string, r Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report %q: %w", path, err)
	}

	if err := NewWriter(f).Write(r); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report %q: %w", path, err)
	}
	return f.Close()
}

// Read decodes the first report found in r.
func Read(r io.Reader) (*Report, error) {
	dec := xml.NewDecoder(r)

	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return nil, errors.New("no seginfo_report element found")
			}
			return nil, err
		}

		if start, ok := tok.(xml.StartElement); ok && start.Name.Local == "seginfo_report" {
			var rep Report
			if err := dec.DecodeElement(&rep, &start); err != nil {
				return nil, err
			}
			return &rep, nil
		}
	}
}
