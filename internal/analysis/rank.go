package analysis

import (
	"regexp"
	"strconv"
	"strings"
)

var firstNumber = regexp.MustCompile(`\d+`)

// AssemblyAnnotationValue ranks an assembly and genome annotation so that
// newer assemblies sort above older ones and, within an assembly, newer
// annotations sort above older ones. The assembly's version number carries
// the thousands; the annotation's version number the units. Minimal
// assemblies rank just below their full counterpart.
func AssemblyAnnotationValue(assembly, annotation string) float64 {
	value := float64(versionNumber(assembly)) * 1000
	if strings.HasSuffix(assembly, "-minimal") {
		value -= 0.5
	}
	if annotation != "" {
		value += float64(versionNumber(annotation) % 1000)
	}
	return value
}

func versionNumber(s string) int {
	m := firstNumber.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}
