package common

// Product multiplies all values, reporting false when the result would exceed limit
// or any value is not positive.
func Product(values []int, limit int) (int, bool) {
	n := 1

	for _, v := range values {
		if v <= 0 || n > limit/v {
			return 0, false
		}

		n *= v
	}

	return n, true
}
