package regmodel

// Access classifies a field's access mode string.
type Access int

const (
	// AccessUnspecified means the source gave no access mode.
	AccessUnspecified Access = iota
	AccessReadOnly
	AccessWriteOnly
	AccessReadWrite
	// AccessNotModeled covers modes the source names but the output formats
	// do not express yet (write-one-to-clear, write-one-to-pulse, OTP).
	AccessNotModeled
	// AccessUnknown is any other non-empty string.
	AccessUnknown
)

// ParseAccess maps a vendor access string onto an Access.
func ParseAccess(s string) Access {
	switch s {
	case "":
		return AccessUnspecified
	case "r", "rsvd":
		return AccessReadOnly
	case "w":
		return AccessWriteOnly
	case "rw", "r/w":
		return AccessReadWrite
	case "w1c", "w1p", "otp":
		return AccessNotModeled
	default:
		return AccessUnknown
	}
}

// SVD returns the CMSIS-SVD access keyword. ok is false when the access
// should be left out of the output.
func (a Access) SVD() (value string, ok bool) {
	switch a {
	case AccessReadOnly:
		return "read-only", true
	case AccessWriteOnly:
		return "write-only", true
	case AccessReadWrite:
		return "read-write", true
	default:
		return "", false
	}
}

func (a Access) String() string {
	switch a {
	case AccessUnspecified:
		return "unspecified"
	case AccessReadOnly:
		return "read-only"
	case AccessWriteOnly:
		return "write-only"
	case AccessReadWrite:
		return "read-write"
	case AccessNotModeled:
		return "not-modeled"
	default:
		return "unknown"
	}
}
