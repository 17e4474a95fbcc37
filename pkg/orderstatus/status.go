package orderstatus

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Status string

const (
	Pending    Status = "pending"
	Processing Status = "processing"
	Completed  Status = "completed"
	Cancelled  Status = "cancelled"
	Refunded   Status = "refunded"
)

var (
	ErrUnknown    = errors.New("unknown order status")
	ErrSameStatus = errors.New("order already has this status")
	ErrTerminal   = errors.New("order status is terminal")
)

var all = []Status{Pending, Processing, Completed, Cancelled, Refunded}

var next = map[Status]Status{
	Pending:    Processing,
	Processing: Completed,
	Completed:  Completed,
	Cancelled:  Cancelled,
	Refunded:   Refunded,
}

var labels = map[Status]string{
	Pending:    "Pendiente",
	Processing: "Procesando",
	Completed:  "Completado",
	Cancelled:  "Cancelado",
	Refunded:   "Reembolsado",
}

var legacy = map[string]Status{
	"pendiente":   Pending,
	"procesando":  Processing,
	"completado":  Completed,
	"entregado":   Completed,
	"cancelado":   Cancelled,
	"reembolsado": Refunded,
}

func All() []Status {
	return append([]Status(nil), all...)
}

// Parse accepts the canonical names and the Spanish names older rows use.
func Parse(s string) (Status, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if st := Status(v); st.Valid() {
		return st, nil
	}
	if st, ok := legacy[v]; ok {
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknown, s)
}

// Normalize maps a stored value to its canonical status. Unknown values are
// returned unchanged.
func Normalize(s Status) Status {
	if st, err := Parse(string(s)); err == nil {
		return st
	}
	return s
}

// Spellings lists every stored value that reads as s: the canonical name
// first, then its legacy aliases in sorted order.
func Spellings(s Status) []string {
	out := []string{string(s)}
	var aliases []string
	for name, st := range legacy {
		if st == s {
			aliases = append(aliases, name)
		}
	}
	sort.Strings(aliases)
	return append(out, aliases...)
}

func (s Status) Valid() bool {
	_, ok := next[s]
	return ok
}

// Next is the default forward step. Terminal and unknown statuses map to
// themselves.
func (s Status) Next() Status {
	if n, ok := next[s]; ok {
		return n
	}
	return s
}

func (s Status) Terminal() bool {
	return s.Valid() && s.Next() == s
}

func (s Status) Label() string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

// CheckChange validates a manual status change from s to to. Any known
// status may be chosen as long as it differs from the current one.
func (s Status) CheckChange(to Status) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknown, to)
	}
	if s == to {
		return ErrSameStatus
	}
	return nil
}

// Advance returns the next status or ErrTerminal when s does not move.
func (s Status) Advance() (Status, error) {
	if !s.Valid() {
		return s, fmt.Errorf("%w: %q", ErrUnknown, s)
	}
	n := s.Next()
	if n == s {
		return s, ErrTerminal
	}
	return n, nil
}

// Countable reports whether orders in this status count towards sales.
func (s Status) Countable() bool {
	return s != Cancelled && s != Refunded
}
