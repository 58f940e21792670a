// prepare.go implements the root-only environment preparation that runs
// before the privilege drop: the symbol data directory must exist and be
// owned by the unprivileged service account, because after gosu the
// service can no longer create or chown it.
package dispatch

import (
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strconv"

	"github.com/mmr-tortoise/symbolserver-image/internal/model"
)

// EnsureSymbolDir creates dir (including parents) if needed and changes
// ownership of the directory and everything beneath it to the named
// account. It runs at most once per container start, and only under the
// root identity.
//
// Any failure — unknown account, creation error, chown error — is fatal
// and returns a CLIError with ExitPrivilegeSetup so startup aborts
// before any exec happens.
func EnsureSymbolDir(dir, account string) error {
	uid, gid, err := lookupAccount(account)
	if err != nil {
		return model.WrapCLIError(
			model.ExitPrivilegeSetup,
			fmt.Sprintf("service account %q not found", account),
			err,
		)
	}

	// 0755 matches what the service expects: world-readable symbol data,
	// writable only by the owning account.
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return model.WrapCLIError(
			model.ExitPrivilegeSetup,
			fmt.Sprintf("failed to create symbol directory %s", dir),
			err,
		)
	}

	// Recursive chown, equivalent to "chown -R account dir". The walk
	// includes dir itself as the first visited path.
	err = filepath.WalkDir(dir, func(path string, _ fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		// Lchown rather than Chown so symlinks inside the symbol
		// directory change owner themselves instead of their targets.
		return os.Lchown(path, uid, gid)
	})
	if err != nil {
		return model.WrapCLIError(
			model.ExitPrivilegeSetup,
			fmt.Sprintf("failed to change ownership of %s to %s", dir, account),
			err,
		)
	}

	return nil
}

// lookupAccount resolves an account name to numeric uid/gid values.
// The os/user lookup reads /etc/passwd inside the container, which is
// where the image's service account is declared.
func lookupAccount(account string) (uid, gid int, err error) {
	u, err := user.Lookup(account)
	if err != nil {
		return 0, 0, err
	}

	uid, err = strconv.Atoi(u.Uid)
	if err != nil {
		return 0, 0, fmt.Errorf("non-numeric uid %q for account %s: %w", u.Uid, account, err)
	}
	gid, err = strconv.Atoi(u.Gid)
	if err != nil {
		return 0, 0, fmt.Errorf("non-numeric gid %q for account %s: %w", u.Gid, account, err)
	}
	return uid, gid, nil
}
