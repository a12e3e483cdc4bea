package function

import (
	"fmt"
	"strings"
)

// MakeString renders a function as [coef*]name(arg,...)[@label,...].
func MakeString(name string, fn Function, args ...any) string {
	var sb strings.Builder
	if c := fn.Coefficient(); c != nil && !c.IsUnity() {
		sb.WriteString(c.String())
		sb.WriteByte('*')
	}
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(fmt.Sprint(a))
	}
	sb.WriteByte(')')
	if labels := fn.Labels(); len(labels) > 0 {
		sb.WriteByte('@')
		sb.WriteString(strings.Join(labels, ","))
	}
	return sb.String()
}
