package model

type embeddedRoomCompiler struct {
	options Options
}

// NewEmbeddedRoomCompiler returns a compiler whose assignment variables carry the room the lesson takes place in
func NewEmbeddedRoomCompiler(options Options) Compiler {
	return &embeddedRoomCompiler{options: normalizeOptions(options)}
}

func (compiler *embeddedRoomCompiler) Compile(input Instance) (Result, error) {
	return compile(input, compiler.options, true)
}
