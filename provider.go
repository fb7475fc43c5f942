package currency

// Provider names the rate source stored next to every persisted rate.
type Provider string

const (
	FixerIoProvider Provider = "FixerIo"
	EmptyProvider   Provider = ""
)
