package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Разметка
	MarkupInfo            Code = 1000
	MarkupStrayEndTag     Code = 1001
	MarkupUnclosedElement Code = 1002
	MarkupInvalidToken    Code = 1003

	// Директивы
	DirectiveInfo               Code = 2000
	DirectiveUnknown            Code = 2001
	DirectiveEmptyName          Code = 2002
	DirectiveLateCompileUnbound Code = 2003
	DirectiveDuplicate          Code = 2004
	DirectiveBadFor             Code = 2005
	DirectiveEmptyExpression    Code = 2006
	DirectiveMissingParam       Code = 2007

	// Интерполяция
	InterpInfo       Code = 3000
	InterpUnbalanced Code = 3001
	InterpEmpty      Code = 3002

	// I/O
	IOLoadFileError  Code = 4001
	IOCacheError     Code = 4002
	IOUnsupportedExt Code = 4003

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	MarkupInfo:                  "Markup information",
	MarkupStrayEndTag:           "End tag without matching start tag",
	MarkupUnclosedElement:       "Element is never closed",
	MarkupInvalidToken:          "Invalid markup token",
	DirectiveInfo:               "Directive information",
	DirectiveUnknown:            "Unknown directive",
	DirectiveEmptyName:          "Directive attribute without a name",
	DirectiveLateCompileUnbound: "Deferred subtree has no directive to compile it",
	DirectiveDuplicate:          "Directive repeated on the same element",
	DirectiveBadFor:             "Malformed k-for expression",
	DirectiveEmptyExpression:    "Directive expression is empty",
	DirectiveMissingParam:       "Directive requires a parameter",
	InterpInfo:                  "Interpolation information",
	InterpUnbalanced:            "Unbalanced interpolation delimiters",
	InterpEmpty:                 "Empty interpolation",
	IOLoadFileError:             "I/O error",
	IOCacheError:                "Plan cache error",
	IOUnsupportedExt:            "Unsupported template file",
	ObsInfo:                     "Observability",
	ObsTimings:                  "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 5000:
		return fmt.Sprintf("KB%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "KB0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
