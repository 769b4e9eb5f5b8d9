package pkg

// Contains check source have target
func Contains(slice []string, val string) bool {
	for _, v := range slice {
		if v == val {
			return true
		}
	}
	return false
}

// Remove delete the first occurrence of target from source. The source
// slice is left intact so earlier snapshots sharing its backing stay valid.
func Remove(slice []string, val string) []string {
	for i, v := range slice {
		if v == val {
			out := make([]string, 0, len(slice)-1)
			out = append(out, slice[:i]...)
			return append(out, slice[i+1:]...)
		}
	}
	return slice
}
