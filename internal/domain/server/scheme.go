package server

// Scheme is the URL scheme used to reach a provisioning server.
type Scheme string

const (
	SchemeHTTP  Scheme = "http"
	SchemeHTTPS Scheme = "https"
)

func (s Scheme) IsValid() bool {
	return s == SchemeHTTP || s == SchemeHTTPS
}

func (s Scheme) String() string {
	return string(s)
}
