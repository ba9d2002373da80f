package template

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/lestrrat-go/strftime"
)

const defaultDateFormat = "%Y-%m-%d"

var registerOnce sync.Once

// Filters are global in pongo2; the shell filter reaches the engine that is
// currently rendering through activeShell.
var (
	renderMu    sync.Mutex
	activeShell Shell
)

func registerFilters() {
	registerOnce.Do(func() {
		pongo2.SetAutoescape(false)
		for name, fn := range map[string]pongo2.FilterFunction{
			"strftime":      filterStrftime,
			"add_days":      filterAddDays,
			"subtract_days": filterSubtractDays,
			"shell":         filterShell,
		} {
			if pongo2.FilterExists(name) {
				if err := pongo2.ReplaceFilter(name, fn); err != nil {
					panic(err)
				}
				continue
			}
			if err := pongo2.RegisterFilter(name, fn); err != nil {
				panic(err)
			}
		}
	})
}

func filterError(name string, err error) *pongo2.Error {
	return &pongo2.Error{Sender: "filter:" + name, OrigError: err}
}

func parseDate(name string, in *pongo2.Value) (time.Time, *pongo2.Error) {
	if !in.IsString() {
		return time.Time{}, filterError(name, errors.New("expected date string"))
	}
	t, err := time.Parse(time.RFC3339, in.String())
	if err != nil {
		return time.Time{}, filterError(name, fmt.Errorf("invalid date: %w", err))
	}
	return t, nil
}

func filterStrftime(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	t, perr := parseDate("strftime", in)
	if perr != nil {
		return nil, perr
	}
	pattern := defaultDateFormat
	if !param.IsNil() && param.String() != "" {
		pattern = param.String()
	}
	out, err := strftime.Format(pattern, t)
	if err != nil {
		return nil, filterError("strftime", err)
	}
	return pongo2.AsValue(out), nil
}

func shiftDays(name string, in, param *pongo2.Value, sign int) (*pongo2.Value, *pongo2.Error) {
	t, perr := parseDate(name, in)
	if perr != nil {
		return nil, perr
	}
	days := 0
	if !param.IsNil() {
		days = param.Integer()
	}
	return pongo2.AsValue(t.AddDate(0, 0, sign*days).Format(time.RFC3339)), nil
}

func filterAddDays(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return shiftDays("add_days", in, param, 1)
}

func filterSubtractDays(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return shiftDays("subtract_days", in, param, -1)
}

func filterShell(in, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if !in.IsString() {
		return nil, filterError("shell", errors.New("expected string command"))
	}
	if activeShell == nil {
		return nil, filterError("shell", errors.New("shell filter is disabled"))
	}
	out, err := activeShell.Run(in.String())
	if err != nil {
		return nil, filterError("shell", err)
	}
	return pongo2.AsValue(out), nil
}
