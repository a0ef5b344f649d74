package transform

// LanguagePack is the capability set the Transform Engine is polymorphic
// over: parse, applyPatch, generate, validate, collapsed here into the
// single method the engine actually needs per patch. Implementations
// register themselves at startup via Register.
type LanguagePack interface {
	// Language reports which ChangeSpec.Language this pack serves.
	Language() Language

	// Extensions lists the source file extensions this pack's symbolExists
	// and regex invariants should search, e.g. [".ts", ".tsx"].
	Extensions() []string

	// ApplyPatch applies one patch to file content, returning the mutated
	// content and the individual text edits made (for idempotence and
	// ordering checks). Returns ErrUnsupportedOperation for any astOp this
	// pack does not implement.
	ApplyPatch(content string, patch Patch) (mutated string, edits []TextEdit, err error)
}

// TextEdit is one concrete text substitution made while applying a patch.
type TextEdit struct {
	StartOffset int
	EndOffset   int
	OldText     string
	NewText     string
}

var registry = map[Language]LanguagePack{}

// Register installs a LanguagePack for its declared language. Intended to
// be called from package init() functions at startup.
func Register(pack LanguagePack) {
	registry[pack.Language()] = pack
}

// RegisterFor installs a LanguagePack under an additional language key,
// for packs that serve more than one ChangeSpec.Language (the JS/TS pack
// serves both javascript and typescript with one tokenizer).
func RegisterFor(lang Language, pack LanguagePack) {
	registry[lang] = pack
}

// PackFor returns the registered pack for a language, or nil if none is
// registered (the caller should treat this as UnsupportedOperation).
func PackFor(lang Language) LanguagePack {
	return registry[lang]
}
