package model

type timeOnlyCompiler struct {
	options Options
}

// NewTimeOnlyCompiler returns a compiler that leaves rooms out of the model
func NewTimeOnlyCompiler(options Options) Compiler {
	return &timeOnlyCompiler{options: normalizeOptions(options)}
}

func (compiler *timeOnlyCompiler) Compile(input Instance) (Result, error) {
	return compile(input, compiler.options, false)
}
