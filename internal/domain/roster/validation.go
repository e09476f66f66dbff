package roster

import (
	"math"
	"strings"
)

// ValidateMemberInput validates the fields required for a knight or client.
// Name and job must fit on one roster line, and the scaled power must fit in
// an int64.
func ValidateMemberInput(name, job string, power float64) error {
	if !validField(name) || !validField(job) {
		return ErrInvalidInput
	}
	if math.IsNaN(power) || math.IsInf(power, 0) {
		return ErrInvalidInput
	}
	if math.Abs(power)*PowerScale >= math.MaxInt64 {
		return ErrInvalidInput
	}
	return nil
}

func validField(v string) bool {
	return strings.TrimSpace(v) != "" && !strings.ContainsAny(v, "\r\n")
}

// ScalePower converts an operator-entered power value to its stored form.
func ScalePower(input float64) int64 {
	return int64(math.Round(input * PowerScale))
}

// ValidateKnightTransition validates a knight status change.
func ValidateKnightTransition(from, to KnightStatus) error {
	valid := false
	switch from {
	case KnightWaiting:
		valid = to == KnightInParty || to == KnightOffDuty
	case KnightInParty:
		valid = to == KnightWaiting
	case KnightOffDuty:
		valid = to == KnightWaiting
	}
	if !valid {
		return ErrInvalidTransition
	}
	return nil
}

// ValidateClientTransition validates a client status change. Completed is terminal.
func ValidateClientTransition(from, to ClientStatus) error {
	valid := false
	switch from {
	case ClientWaiting:
		valid = to == ClientInParty
	case ClientInParty:
		valid = to == ClientCompleted
	}
	if !valid {
		return ErrInvalidTransition
	}
	return nil
}
