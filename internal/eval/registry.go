package eval

// defaultBuiltins wires the builtin command table. User subs registered
// via defsub/cmdDefSub always take precedence over these at dispatch
// time.
func defaultBuiltins() map[string]CommandFunc {
	return map[string]CommandFunc{
		"goto":      cmdGoto,
		"gosub":     cmdGosub,
		"skip":      cmdGoto,
		"skipgosub": cmdGosub,
		"return":    cmdReturn,
		"end":       cmdEnd,
		"for":       cmdFor,
		"next":      cmdNext,
		"break":     cmdBreak,
		"if":        cmdIf,
		"notif":     cmdNotif,

		"mov":      cmdMov,
		"add":      cmdAdd,
		"sub":      cmdSub,
		"mul":      cmdMul,
		"div":      cmdDiv,
		"mod":      cmdMod,
		"inc":      cmdInc,
		"dec":      cmdDec,
		"dim":      cmdDim,
		"numalias": cmdNumAlias,
		"stralias": cmdStrAlias,
		"rnd":      cmdRnd,
		"itoa":     cmdItoa,
		"atoi":     cmdAtoi,
		"len":      cmdLen,
		"mid":      cmdMid,
		"cmp":      cmdCmp,
		"split":    cmdSplit,
		"getparam": cmdGetParam,
		"defsub":   cmdDefSub,

		"d":                         cmdDialogueEmit,
		"d2":                        cmdDialogueEmit2,
		"waitondialogue":            cmdWaitOnDialogue,
		"makechoice":                cmdMakeChoice,
		"acceptchoice":              cmdAcceptChoice,
		"accept_choice_vector_size": cmdAcceptChoiceVectorSize,
		"sskip":                     cmdSuperSkip,
		"savegame":                  cmdSaveGame,
		"loadgame":                  cmdLoadGame,

		"wait":  cmdWait,
		"delay": cmdDelay,

		"aspt":                 cmdAspt,
		"spt":                  cmdSpt,
		"agpt":                 cmdAgpt,
		"gpt":                  cmdGpt,
		"waitonspriteproperty": cmdWaitOnSpriteProperty,
		"waitonglobalproperty": cmdWaitOnGlobalProperty,
	}
}
