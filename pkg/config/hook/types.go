package hook

import (
	"fmt"
	"reflect"

	"github.com/ammar0144/raritycache/pkg/entity"
	"github.com/mitchellh/mapstructure"
)

var (
	typesType = reflect.TypeOf(entity.AllTypes)
)

// EntityTypes decodes either a comma separated string ("guild,member") or a
// list of kind names into an entity.Types set.
func EntityTypes() mapstructure.DecodeHookFuncType {
	return func(in reflect.Type, out reflect.Type, val interface{}) (interface{}, error) {
		if out != typesType {
			return val, nil
		}

		switch in.Kind() {
		case reflect.String:
			return entity.ParseTypes(val.(string))
		case reflect.Slice:
			items := reflect.ValueOf(val)
			names := make([]string, 0, items.Len())
			for i := 0; i < items.Len(); i++ {
				names = append(names, fmt.Sprint(items.Index(i).Interface()))
			}
			return entity.ParseTypeNames(names)
		default:
			return val, nil
		}
	}
}
