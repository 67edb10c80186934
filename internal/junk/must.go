package junk

// Must panics when err is set.  Reserved for setup steps which only fail through programming mistakes.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}
