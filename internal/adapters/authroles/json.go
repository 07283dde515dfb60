package authroles

import (
	"strings"

	"github.com/tidwall/gjson"

	domainauth "github.com/target/jobboard/internal/domain/auth"
)

// ParseJSON decodes a raw role payload. Valid JSON is converted structurally;
// anything else is taken as a bare role string (so `employer` and `"employer"`
// are equivalent). Empty input yields an absent role.
func ParseJSON(b []byte) domainauth.RawRole {
	if !gjson.ValidBytes(b) {
		s := strings.TrimSpace(string(b))
		if s == "" {
			return domainauth.RawRole{}
		}
		return domainauth.RawRoleString(s)
	}
	return fromResult(gjson.ParseBytes(b))
}

// ParseString is ParseJSON for string input.
func ParseString(s string) domainauth.RawRole {
	return ParseJSON([]byte(s))
}

func fromResult(res gjson.Result) domainauth.RawRole {
	switch {
	case res.IsObject():
		fields := make(map[string]domainauth.RawRole)
		res.ForEach(func(key, value gjson.Result) bool {
			fields[key.String()] = fromResult(value)
			return true
		})
		return domainauth.RawRoleRecord(fields)
	case res.IsArray():
		arr := res.Array()
		items := make([]domainauth.RawRole, 0, len(arr))
		for _, v := range arr {
			items = append(items, fromResult(v))
		}
		return domainauth.RawRoleList(items...)
	case res.Type == gjson.String:
		return domainauth.RawRoleString(res.Str)
	default:
		return domainauth.RawRole{}
	}
}
