package errs_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ardanlabs/ledger/business/web/errs"
)

var errRefused = errors.New("insufficient balance")

func isRefused(err error) bool {
	return errors.Is(err, errRefused)
}

func Test_Classify(t *testing.T) {
	type table struct {
		name    string
		err     error
		trusted bool
	}

	tt := []table{
		{name: "refused", err: errRefused, trusted: true},
		{name: "wrapped", err: fmt.Errorf("admit: %w", errRefused), trusted: true},
		{name: "other", err: errors.New("disk failure"), trusted: false},
		{name: "nil", err: nil, trusted: false},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			err := errs.Classify(tst.err, http.StatusBadRequest, isRefused)

			if got := errs.IsTrusted(err); got != tst.trusted {
				t.Fatalf("Test %s:\tShould get back trusted %v, got %v.", tst.name, tst.trusted, got)
			}

			if tst.err == nil {
				if err != nil {
					t.Fatalf("Test %s:\tShould keep a nil error nil.", tst.name)
				}
				return
			}

			if !errors.Is(err, tst.err) {
				t.Fatalf("Test %s:\tShould keep the original error reachable.", tst.name)
			}

			if tst.trusted && errs.GetTrusted(err).Status != http.StatusBadRequest {
				t.Fatalf("Test %s:\tShould carry the status.", tst.name)
			}
		}

		t.Run(tst.name, f)
	}
}
