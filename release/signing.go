package release

import "fmt"

// Signing is the decision how release artifacts get signed. It is one of
// [KeyFromFile], [KeyLiteral] or [ExternalAgent]; no other implementations
// exist. Use [MatchSigning] to handle a decision.
//
// The String and GoString methods of the variants never reveal key material
// or passphrases.
type Signing interface {
	fmt.Stringer
	fmt.GoStringer
	isSigning()
}

// KeyFromFile signs with an in-memory key that was read from the file at
// Path.
type KeyFromFile struct {
	Path       string
	Key        string
	Passphrase string
}

// KeyLiteral signs with an in-memory key that was given as the key
// locator's value itself.
type KeyLiteral struct {
	Key        string
	Passphrase string
}

// ExternalAgent delegates signing to the ambient signing tool. With Batch
// set the tool must not prompt.
type ExternalAgent struct {
	Batch bool
}

var (
	_ Signing = KeyFromFile{}
	_ Signing = KeyLiteral{}
	_ Signing = ExternalAgent{}
)

func (KeyFromFile) isSigning()   {}
func (KeyLiteral) isSigning()    {}
func (ExternalAgent) isSigning() {}

func (k KeyFromFile) String() string {
	return fmt.Sprintf("in-memory key from file %s", k.Path)
}

func (k KeyFromFile) GoString() string {
	return fmt.Sprintf("release.KeyFromFile{Path:%q}", k.Path)
}

func (KeyLiteral) String() string { return "in-memory key from property" }

func (KeyLiteral) GoString() string { return "release.KeyLiteral{}" }

func (a ExternalAgent) String() string {
	if a.Batch {
		return "external agent (batch)"
	}
	return "external agent"
}

func (a ExternalAgent) GoString() string {
	return fmt.Sprintf("release.ExternalAgent{Batch:%t}", a.Batch)
}

// MatchSigning calls the function matching the variant of s. All three
// variants must be handled. A nil s or a foreign implementation panics.
func MatchSigning[R any](
	s Signing,
	fromFile func(KeyFromFile) R,
	literal func(KeyLiteral) R,
	agent func(ExternalAgent) R,
) R {
	switch s := s.(type) {
	case KeyFromFile:
		return fromFile(s)
	case KeyLiteral:
		return literal(s)
	case ExternalAgent:
		return agent(s)
	}
	panic(fmt.Errorf("illegal signing decision %T", s))
}
