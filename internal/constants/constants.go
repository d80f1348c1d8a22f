package constants

// AppName names the binary, the config directory, and exported share cards.
const AppName = "classwrap"

// DefaultServerURL is where the viewer looks for a classwrapd instance.
const DefaultServerURL = "http://localhost:5002"

// DefaultServiceAddr is the classwrapd listen address.
const DefaultServiceAddr = ":5002"
