package qrpayload

// The payment-slip payload grammar restricts every text field to a fixed
// Latin subset. Characters outside the set are an encoding error; the
// encoder never strips or substitutes them.

const allowedSpecials = ` !"#%&*;<>÷=@_$£[]{}\` + "`" + `.,:'+-/()?`

const allowedAccented = "àáâäçèéêëìíîïñòóôöùúûüýßÀÁÂÄÇÈÉÊËÌÍÎÏÒÓÔÖÙÚÛÜÑ"

var allowed map[rune]bool

func init() {
	allowed = make(map[rune]bool)
	for r := '0'; r <= '9'; r++ {
		allowed[r] = true
	}
	for r := 'a'; r <= 'z'; r++ {
		allowed[r] = true
	}
	for r := 'A'; r <= 'Z'; r++ {
		allowed[r] = true
	}
	for _, r := range allowedSpecials {
		allowed[r] = true
	}
	for _, r := range allowedAccented {
		allowed[r] = true
	}
}

// firstDisallowed returns the first rune of s outside the payload character
// set, or -1 if the whole string is representable.
func firstDisallowed(s string) rune {
	for _, r := range s {
		if !allowed[r] {
			return r
		}
	}
	return -1
}
