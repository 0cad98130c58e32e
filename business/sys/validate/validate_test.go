package validate_test

import (
	"testing"

	"github.com/yournet/ledger/business/sys/validate"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

type post struct {
	Author  string `json:"author" validate:"required,notblank"`
	Content string `json:"content" validate:"required,notblank"`
}

func Test_Check(t *testing.T) {
	type table struct {
		name   string
		val    post
		fields []string
	}

	tt := []table{
		{name: "valid", val: post{Author: "alice", Content: "hello"}},
		{name: "missing", val: post{}, fields: []string{"author", "content"}},
		{name: "blank", val: post{Author: "  ", Content: "hello"}, fields: []string{"author"}},
	}

	t.Log("Given the need to validate submitted models.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen handling a %s model.", testID, tst.name)
				{
					err := validate.Check(tst.val)

					if len(tst.fields) == 0 {
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould pass validation: %v", failed, testID, err)
						}
						t.Logf("\t%s\tTest %d:\tShould pass validation.", success, testID)
						return
					}

					if !validate.IsFieldErrors(err) {
						t.Fatalf("\t%s\tTest %d:\tShould get field errors, got %v.", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould get field errors.", success, testID)

					fields := validate.GetFieldErrors(err).Fields()
					if len(fields) != len(tst.fields) {
						t.Fatalf("\t%s\tTest %d:\tShould get %d field errors, got %v.", failed, testID, len(tst.fields), fields)
					}
					for _, name := range tst.fields {
						if _, exists := fields[name]; !exists {
							t.Fatalf("\t%s\tTest %d:\tShould report the %q field by its JSON name.", failed, testID, name)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould report the fields by their JSON names.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}
