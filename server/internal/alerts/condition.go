package alerts

import (
	"strconv"
	"strings"

	"github.com/phxeconet/ceim/pkg/ceim"
)

// evalCondition evaluates a rule condition string against a computed Result.
//
// Supported expressions (field operator value):
//
//	kn > 1e6
//	kn >= 7200
//	mass_load > 5e8
//	node == CAP-LP
//	contaminant == PFBS
//
// Returns (fires bool, triggering value float64).
// Returns (false, 0) if the expression cannot be parsed or the field is unknown.
func evalCondition(cond string, res ceim.Result) (bool, float64) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return false, 0
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	switch field {
	case "node":
		if op == "==" {
			return res.NodeID == rhs, 0
		}
		return false, 0

	case "contaminant":
		if op == "==" {
			return res.ContaminantID == rhs, 0
		}
		return false, 0

	default:
		v, ok := numericField(field, res)
		if !ok {
			return false, 0
		}
		threshold, err := strconv.ParseFloat(rhs, 64)
		if err != nil {
			return false, 0
		}
		return compareFloat(v, op, threshold), v
	}
}

// numericField maps a field name to its value in the result.
func numericField(field string, res ceim.Result) (float64, bool) {
	switch field {
	case "kn":
		return res.Kn, true
	case "mass_load":
		return res.MassLoad, true
	default:
		return 0, false
	}
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	default:
		return false
	}
}
