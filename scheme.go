package httpauth

// Scheme identifies which authentication scheme a challenge or an
// established session is using.
type Scheme int

const (
	SchemeBasic Scheme = iota
	SchemeDigest
	SchemeNegotiate
)

func (s Scheme) String() string {
	switch s {
	case SchemeBasic:
		return "Basic"
	case SchemeDigest:
		return "Digest"
	case SchemeNegotiate:
		return "Negotiate"
	default:
		return "unknown"
	}
}

// Algorithm identifies the hash algorithm named by a Digest challenge.
type Algorithm int

const (
	AlgorithmMD5 Algorithm = iota
	AlgorithmMD5Sess
	AlgorithmUnknown
)

func parseAlgorithm(s string) Algorithm {
	switch s {
	case "", "MD5":
		return AlgorithmMD5
	case "MD5-sess":
		return AlgorithmMD5Sess
	default:
		return AlgorithmUnknown
	}
}

func (a Algorithm) String() string {
	switch a {
	case AlgorithmMD5:
		return "MD5"
	case AlgorithmMD5Sess:
		return "MD5-sess"
	default:
		return "unknown"
	}
}

// Qop identifies the negotiated quality of protection for a Digest
// exchange.
type Qop int

const (
	QopNone Qop = iota
	QopAuth
	QopAuthInt
)

func (q Qop) String() string {
	switch q {
	case QopAuth:
		return "auth"
	case QopAuthInt:
		return "auth-int"
	default:
		return ""
	}
}

// ContextFilter restricts an AuthSession to CONNECT requests, to
// non-CONNECT requests, or lets it apply to either.
type ContextFilter int

const (
	ContextAny ContextFilter = iota
	ContextConnect
	ContextNotConnect
)

func (f ContextFilter) allows(method string) bool {
	isConnect := method == "CONNECT"
	switch f {
	case ContextConnect:
		return isConnect
	case ContextNotConnect:
		return !isConnect
	default:
		return true
	}
}
