package match

// Kind distinguishes the two mutually exclusive match record kinds that
// share one id space. A contact-reveal payment carries a match id that
// identifies exactly one of them.
type Kind string

const (
	KindWorker  Kind = "worker"
	KindService Kind = "service"
)

// Revealable identifies the single match record, of whichever kind
// exists, whose contact can be revealed by a settled payment.
type Revealable struct {
	Kind Kind
	ID   int64
}
