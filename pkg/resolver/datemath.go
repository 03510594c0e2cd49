package resolver

import (
	"strings"
	"time"

	"github.com/meridiandb/meridian/pkg/common"
	"github.com/meridiandb/meridian/pkg/types"
)

const defaultDateFormat = "uuuu.MM.dd"

const (
	exprLeftBound  = "<"
	exprRightBound = ">"
	placeholderL   = '{'
	placeholderR   = '}'
	escapeChar     = '\\'
	timeZoneBound  = '|'
)

// resolveDateMathExpressions rewrites every date math template in the
// expression list against the call's start time. A leading `-` is kept as
// an exclusion marker only once a wildcard was seen earlier in the list;
// the remainder of the token still resolves.
func resolveDateMathExpressions(ctx *resolveContext, expressions []string) ([]string, error) {
	result := make([]string, 0, len(expressions))
	wildcardSeen := false
	for _, expression := range expressions {
		if expression != "" && expression[0] == '-' && wildcardSeen {
			resolved, err := resolveDateMathExpression(expression[1:], ctx.startTime)
			if err != nil {
				return nil, err
			}
			result = append(result, "-"+resolved)
		} else {
			resolved, err := resolveDateMathExpression(expression, ctx.startTime)
			if err != nil {
				return nil, err
			}
			result = append(result, resolved)
		}
		if common.IsWildcardPattern(expression) {
			wildcardSeen = true
		}
	}
	return result, nil
}

// ResolveDateMath rewrites a single date math expression against the
// current clock. Expressions not bracketed by `<` and `>` pass through
// unchanged.
func ResolveDateMath(expression string) (string, error) {
	return resolveDateMathExpression(expression, time.Now().UnixMilli())
}

// ResolveDateMathAt is ResolveDateMath against a fixed instant, given as
// milliseconds since epoch.
func ResolveDateMathAt(expression string, timeMillis int64) (string, error) {
	return resolveDateMathExpression(expression, timeMillis)
}

func invalidDateMath(expression, reason string) error {
	return &types.ErrInvalidExpression{Expression: expression, Reason: reason}
}

func resolveDateMathExpression(expression string, nowMillis int64) (string, error) {
	if !strings.HasPrefix(expression, exprLeftBound) || !strings.HasSuffix(expression, exprRightBound) {
		return expression, nil
	}

	inner := expression[1 : len(expression)-1]
	var out strings.Builder
	var placeholder strings.Builder
	escape := false
	inPlaceholder := false
	inDateFormat := false

	for i := 0; i < len(inner); i++ {
		escapedChar := escape
		if escape {
			escape = false
		}

		c := inner[i]
		if c == escapeChar {
			if escapedChar {
				out.WriteByte(c)
			} else {
				escape = true
			}
			continue
		}
		if inPlaceholder {
			switch c {
			case placeholderL:
				if inDateFormat && escapedChar {
					placeholder.WriteByte(c)
				} else if !inDateFormat {
					inDateFormat = true
					placeholder.WriteByte(c)
				} else {
					return "", invalidDateMath(inner, "invalid character in placeholder")
				}
			case placeholderR:
				if inDateFormat && escapedChar {
					placeholder.WriteByte(c)
				} else if inDateFormat {
					inDateFormat = false
					placeholder.WriteByte(c)
				} else {
					rendered, err := renderPlaceholder(inner, placeholder.String(), nowMillis)
					if err != nil {
						return "", err
					}
					out.WriteString(rendered)
					placeholder.Reset()
					inPlaceholder = false
				}
			default:
				placeholder.WriteByte(c)
			}
		} else {
			switch c {
			case placeholderL:
				if escapedChar {
					out.WriteByte(c)
				} else {
					inPlaceholder = true
				}
			case placeholderR:
				if !escapedChar {
					return "", invalidDateMath(inner, "`{` and `}` are reserved characters and should be escaped when used as part of the index name using `\\` (e.g. `\\{text\\}`)")
				}
				out.WriteByte(c)
			default:
				out.WriteByte(c)
			}
		}
	}

	if inPlaceholder {
		return "", invalidDateMath(inner, "date math placeholder is open ended")
	}
	if out.Len() == 0 {
		return "", invalidDateMath(inner, "nothing captured")
	}
	return out.String(), nil
}

// renderPlaceholder evaluates one `math{format|tz}` placeholder body.
func renderPlaceholder(expression, placeholder string, nowMillis int64) (string, error) {
	mathExpression := placeholder
	formatPattern := defaultDateFormat
	timeZoneID := ""

	if formatStart := strings.IndexByte(placeholder, placeholderL); formatStart >= 0 {
		if !strings.HasSuffix(placeholder, string(placeholderR)) {
			return "", invalidDateMath(expression, "missing closing `}` for date math format")
		}
		if formatStart == len(placeholder)-2 {
			return "", invalidDateMath(expression, "missing date format")
		}
		mathExpression = placeholder[:formatStart]
		patternAndTZ := placeholder[formatStart+1 : len(placeholder)-1]
		if sep := strings.IndexByte(patternAndTZ, timeZoneBound); sep >= 0 {
			formatPattern = patternAndTZ[:sep]
			timeZoneID = patternAndTZ[sep+1:]
		} else {
			formatPattern = patternAndTZ
		}
	}

	formatter, err := newDateFormatter(formatPattern)
	if err != nil {
		return "", invalidDateMath(expression, err.Error())
	}
	loc, err := parseTimeZone(timeZoneID)
	if err != nil {
		return "", invalidDateMath(expression, err.Error())
	}
	formatter = formatter.withZone(loc)

	instant, err := evalDateMath(mathExpression, nowMillis, formatter)
	if err != nil {
		return "", invalidDateMath(expression, err.Error())
	}
	return formatter.format(instant), nil
}
