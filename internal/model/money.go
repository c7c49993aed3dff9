package model

import "strconv"

// Cents is a USD amount in integer cents. It marshals to a plain JSON
// number in dollars with two decimal places so that identical inputs
// produce byte-identical reports.
type Cents int64

func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// String renders the amount in dollars, e.g. 123456 -> "1234.56".
func (c Cents) String() string {
	neg := c < 0
	v := int64(c)
	if neg {
		v = -v
	}
	s := strconv.FormatInt(v/100, 10) + "." + pad2(v%100)
	if neg {
		return "-" + s
	}
	return s
}

func pad2(v int64) string {
	if v < 10 {
		return "0" + strconv.FormatInt(v, 10)
	}
	return strconv.FormatInt(v, 10)
}

// Overpayment is the estimated overpayment attached to a flag. Signals 5
// and 6 cannot estimate a dollar amount from aggregate data alone and emit
// the not-computed sentinel, which is distinct from a computed zero.
type Overpayment struct {
	Cents    Cents
	Computed bool
}

// ComputedOverpayment returns an overpayment clamped to a non-negative
// amount. Callers should log a warning before clamping a negative value.
func ComputedOverpayment(cents Cents) Overpayment {
	if cents < 0 {
		cents = 0
	}
	return Overpayment{Cents: cents, Computed: true}
}

// NotComputed is the sentinel for signals whose overpayment requires
// claim-level forensic review.
func NotComputed() Overpayment {
	return Overpayment{}
}

func (o Overpayment) MarshalJSON() ([]byte, error) {
	if !o.Computed {
		return []byte(`"requires_forensic_review"`), nil
	}
	return o.Cents.MarshalJSON()
}
