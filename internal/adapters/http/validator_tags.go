package http

import (
	"reflect"
	"strings"
)

// jsonFieldName reports validation failures under the field's JSON name
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}
