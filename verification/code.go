package verification

import (
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/uslng/membergate/model"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// CodeGenerator produces challenge codes. The code is the
// proof-of-possession token between the bot and the verification site, so
// it must come from an unpredictable source; gonanoid reads crypto/rand.
type CodeGenerator struct {
	length int
}

func NewCodeGenerator(length int) *CodeGenerator {
	if length <= 0 {
		length = model.CodeLength
	}
	return &CodeGenerator{length: length}
}

func (g *CodeGenerator) Generate() (string, error) {
	return gonanoid.Generate(codeAlphabet, g.length)
}
