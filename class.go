package httpauth

// Class is the static descriptor distinguishing origin-server
// authentication from forward-proxy authentication: which headers
// carry the credential and the challenge, which status code gates a
// retry, and what a caller sees on final failure. There are exactly
// two instances, ServerClass and ProxyClass, looked up by value rather
// than dispatched through an interface.
type Class struct {
	name         string
	authHeader   string // request header carrying the credential
	challengeHdr string // response header carrying the challenge
	infoHeader   string // response header carrying Authentication-Info
	statusCode   int    // gated status code
	failErr      error
	failMessage  string
}

// ServerClass describes origin-server (401) authentication.
var ServerClass = &Class{
	name:         "server",
	authHeader:   "Authorization",
	challengeHdr: "WWW-Authenticate",
	infoHeader:   "Authentication-Info",
	statusCode:   401,
	failErr:      ErrAuthRequired,
	failMessage:  "Server was not authenticated correctly.",
}

// ProxyClass describes forward-proxy (407) authentication.
var ProxyClass = &Class{
	name:         "proxy",
	authHeader:   "Proxy-Authorization",
	challengeHdr: "Proxy-Authenticate",
	infoHeader:   "Proxy-Authentication-Info",
	statusCode:   407,
	failErr:      ErrProxyAuthRequired,
	failMessage:  "Proxy server was not authenticated correctly.",
}
