package diag

import (
	"fmt"
)

// Code is a compact, stable identifier for a diagnostic class.
type Code uint16

const (
	UnknownCode Code = 0

	// Library structure (design file to library mapping).
	LibDuplicateUnit      Code = 1001
	LibMissingPrimaryUnit Code = 1002
	LibDuplicateArch      Code = 1003

	// Name resolution.
	SemDuplicateDeclaration  Code = 2001
	SemUnresolvedName        Code = 2002
	SemMissingLibrary        Code = 2003
	SemMissingPrimaryUnit    Code = 2004
	SemMissingPackageName    Code = 2005
	SemAllPrefix             Code = 2006
	SemUseMustBeSelected     Code = 2007
	SemContextMustBeSelected Code = 2008
	SemNotAContext           Code = 2009
	SemCircularDependency    Code = 2010
	SemRedundantLibrary      Code = 2011

	// Declarative-region obligations.
	SemDeferredOutsidePackage Code = 2101
	SemFullDeclOutsideBody    Code = 2102
	SemMissingFullConstant    Code = 2103
	SemMissingProtectedBody   Code = 2104
	SemMissingProtectedDecl   Code = 2105
	SemMissingFullType        Code = 2106

	// Syntax.
	SynUnexpectedToken Code = 3001
	SynUnterminated    Code = 3002
)

var codeNames = map[Code]string{
	UnknownCode: "UNKNOWN",

	LibDuplicateUnit:      "LIB_DUPLICATE_UNIT",
	LibMissingPrimaryUnit: "LIB_MISSING_PRIMARY_UNIT",
	LibDuplicateArch:      "LIB_DUPLICATE_ARCH",

	SemDuplicateDeclaration:  "SEM_DUPLICATE_DECLARATION",
	SemUnresolvedName:        "SEM_UNRESOLVED_NAME",
	SemMissingLibrary:        "SEM_MISSING_LIBRARY",
	SemMissingPrimaryUnit:    "SEM_MISSING_PRIMARY_UNIT",
	SemMissingPackageName:    "SEM_MISSING_PACKAGE_NAME",
	SemAllPrefix:             "SEM_ALL_PREFIX",
	SemUseMustBeSelected:     "SEM_USE_MUST_BE_SELECTED",
	SemContextMustBeSelected: "SEM_CONTEXT_MUST_BE_SELECTED",
	SemNotAContext:           "SEM_NOT_A_CONTEXT",
	SemCircularDependency:    "SEM_CIRCULAR_DEPENDENCY",
	SemRedundantLibrary:      "SEM_REDUNDANT_LIBRARY",

	SemDeferredOutsidePackage: "SEM_DEFERRED_OUTSIDE_PACKAGE",
	SemFullDeclOutsideBody:    "SEM_FULL_DECL_OUTSIDE_BODY",
	SemMissingFullConstant:    "SEM_MISSING_FULL_CONSTANT",
	SemMissingProtectedBody:   "SEM_MISSING_PROTECTED_BODY",
	SemMissingProtectedDecl:   "SEM_MISSING_PROTECTED_DECL",
	SemMissingFullType:        "SEM_MISSING_FULL_TYPE",

	SynUnexpectedToken: "SYN_UNEXPECTED_TOKEN",
	SynUnterminated:    "SYN_UNTERMINATED",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CODE_%04d", uint16(c))
}
