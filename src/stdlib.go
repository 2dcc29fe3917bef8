package gibscript

// RegisterStandardLibrary registers every built-in command
func (gs *GibScript) RegisterStandardLibrary() {
	gs.RegisterCoreLib()
	gs.RegisterFlowLib()
	gs.RegisterThreadLib()
	gs.RegisterStringLib()
	gs.RegisterMathLib()
	gs.RegisterFilesLib()
	gs.RegisterKeyLib()
}

// builtin registers one standard command, logging rather than failing on a clash
func (gs *GibScript) builtin(cmd *Command) {
	if err := gs.executor.RegisterCommand(cmd); err != nil {
		gs.logger.ErrorCat(CatSystem, "cannot register %s: %v", cmd.Name, err)
	}
}

// argCountError is the shared "invalid number of arguments" failure
func argCountError(ctx *Context) error {
	return newSemanticError("%s: invalid number of arguments.", ctx.Command.Name)
}

// restrictedError is the shared denial for restricted buffers
func restrictedError(ctx *Context) error {
	return newSemanticError("%s: access to restricted command denied.", ctx.Command.Name)
}
