package config

import (
	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const ENCODING_UTF8 = "UTF-8"

var currentEncoding encoding.Encoding = unicode.UTF8

// SetEncoding selects the text encoding of string fields by name:
// UTF-8 or any charmap name such as "Windows 1252".
func SetEncoding(name string) error {
	if name == "" || name == ENCODING_UTF8 {
		currentEncoding = unicode.UTF8
		return nil
	}
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			if cm.String() == name {
				currentEncoding = cm
				return nil
			}
		}
	}
	return errors.Errorf("Failed to find encoding %q", name)
}

func ListEncodings() []string {
	list := []string{ENCODING_UTF8}
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			list = append(list, cm.String())
		}
	}
	return list
}

func GetEncoding() encoding.Encoding {
	return currentEncoding
}
