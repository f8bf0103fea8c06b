package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/samirrijal/tripjournal/internal/core/domain"
	"github.com/samirrijal/tripjournal/internal/pkg/geotag"
)

// report is the result for one file.
type report struct {
	File        string           `json:"file"`
	Outcome     string           `json:"outcome"`
	Coordinates *domain.GeoPoint `json:"coordinates,omitempty"`
	Error       string           `json:"error,omitempty"`
}

func inspectFile(fsys afero.Fs, name string) report {
	r := report{File: name}
	f, err := fsys.Open(name)
	if err != nil {
		err = fmt.Errorf("%w: %v", geotag.ErrUnreadable, err)
		r.Outcome, r.Error = geotag.Outcome(err), err.Error()
		return r
	}
	defer f.Close()

	p, err := geotag.Parse(f)
	r.Outcome = geotag.Outcome(err)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.Coordinates = &p
	return r
}

func writeReports(w io.Writer, reports []report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		for _, r := range reports {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range reports {
		var err error
		if r.Coordinates != nil {
			_, err = fmt.Fprintf(w, "%s\t%.6f,%.6f\n", r.File, r.Coordinates.Lat, r.Coordinates.Lon)
		} else {
			_, err = fmt.Fprintf(w, "%s\t%s\t%s\n", r.File, r.Outcome, r.Error)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
