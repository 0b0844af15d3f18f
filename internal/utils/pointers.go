package utils

func Float64Ptr(v float64) *float64 {
	return &v
}
