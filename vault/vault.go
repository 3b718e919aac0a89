// Package vault keeps a credential registry in a password protected file.
//
// The file is the registry encoded by the credential package, sealed with
// AES-256-GCM under a key stretched from the user's password. Files written
// before salts were stored alongside the ciphertext are still readable and
// are rewritten in the current format the first time they are opened.
//
// A *Vault is safe for concurrent use, every method holds the vault's lock for
// its whole duration.
package vault

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aarondl/rauthy/credential"
	"github.com/aarondl/rauthy/crypt"
)

// DefaultFileName is the name of the vault file inside its directory
const DefaultFileName = "Rauthy.bin"

// Option configures Open
type Option func(*Vault)

// WithLogger sets the logger, the default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(v *Vault) {
		v.log = log
	}
}

// WithFileName overrides DefaultFileName
func WithFileName(name string) Option {
	return func(v *Vault) {
		v.fileName = name
	}
}

// Vault is an unlocked vault file
type Vault struct {
	mut sync.Mutex
	log zerolog.Logger

	fileName string
	path     string
	format   Format
	closed   bool

	// key and salt that the next save seals with
	key, salt []byte
	creds     credential.Map
}

// Open unlocks the vault file in dir. The password is wiped before Open
// returns regardless of the outcome.
//
// If there is no file yet an empty vault is returned and nothing is written
// until the first change. A file that no format can unlock returns
// crypt.ErrAuthentication. A legacy file is rewritten in the current format
// with a freshly generated salt before Open returns.
func Open(dir string, password []byte, opts ...Option) (*Vault, error) {
	defer crypt.Wipe(password)

	v := &Vault{
		log:      zerolog.Nop(),
		fileName: DefaultFileName,
	}
	for _, o := range opts {
		o(v)
	}
	v.path = filepath.Join(dir, v.fileName)
	log := v.log.With().Str("path", v.path).Logger()

	file, exists, err := readFile(v.path)
	if err != nil {
		return nil, err
	}

	if !exists {
		v.key, v.salt, err = crypt.NewKey(password)
		if err != nil {
			return nil, err
		}
		v.creds = make(credential.Map)
		v.format = FormatNone

		log.Info().Msg("created new vault")
		return v, nil
	}

	pt, key, salt, format, err := unlock(password, file)
	if err != nil {
		log.Debug().Int("size", len(file)).Msg("no format could unlock the vault")
		return nil, err
	}
	defer crypt.Wipe(pt)

	creds, err := credential.Decode(pt)
	if err != nil {
		crypt.Wipe(key, salt)
		return nil, err
	}
	v.creds = creds
	v.format = format

	if format != FormatLegacy {
		v.key, v.salt = key, salt
		log.Info().Stringer("format", format).Int("credentials", len(creds)).Msg("unlocked vault")
		return v, nil
	}

	// The legacy key is only good for reading, a new salt is generated and the
	// file is written back out before anyone gets to use the vault.
	crypt.Wipe(key)
	v.key, v.salt, err = crypt.NewKey(password)
	if err != nil {
		v.wipe()
		return nil, err
	}
	if err = v.save(); err != nil {
		v.wipe()
		return nil, fmt.Errorf("failed to migrate legacy vault: %w", err)
	}

	log.Info().Int("credentials", len(creds)).Msg("migrated legacy vault")
	return v, nil
}

// Save writes the vault to disk
func (v *Vault) Save() error {
	v.mut.Lock()
	defer v.mut.Unlock()

	if v.closed {
		return ErrClosed
	}

	return v.save()
}

func (v *Vault) save() error {
	if len(v.key) != crypt.KeySize || len(v.salt) != crypt.SaltSize {
		return ErrNoKey
	}

	pt := credential.Encode(v.creds)
	defer crypt.Wipe(pt)

	data, err := seal(v.key, v.salt, pt)
	if err != nil {
		return err
	}

	if err = writeFile(v.path, data); err != nil {
		return err
	}
	v.format = FormatCurrent

	v.log.Debug().Str("path", v.path).Int("credentials", len(v.creds)).Msg("saved vault")
	return nil
}

// Put inserts or replaces a credential by ID (derived from issuer and name if
// empty) and saves. Credentials failing Validate are rejected before anything
// changes. If saving fails the change is undone.
func (v *Vault) Put(c credential.Credential) error {
	v.mut.Lock()
	defer v.mut.Unlock()

	if v.closed {
		return ErrClosed
	}

	if len(c.ID) == 0 {
		c.ID = credential.MakeID(c.Issuer, c.Name)
	}
	if err := c.Validate(); err != nil {
		return err
	}

	prev, existed := v.creds.Put(c)
	if err := v.save(); err != nil {
		if existed {
			v.creds[c.ID] = prev
		} else {
			delete(v.creds, c.ID)
		}
		return err
	}

	return nil
}

// Remove deletes the credential with id and saves. Removing an id that isn't
// present returns false and does not touch the file.
func (v *Vault) Remove(id string) (bool, error) {
	v.mut.Lock()
	defer v.mut.Unlock()

	if v.closed {
		return false, ErrClosed
	}

	c, ok := v.creds.Remove(id)
	if !ok {
		return false, nil
	}

	if err := v.save(); err != nil {
		v.creds[id] = c
		return false, err
	}

	return true, nil
}

// Rekey derives a new key from password with a new salt and rewrites the
// file. The password is wiped. On failure the vault keeps its old key.
func (v *Vault) Rekey(password []byte) error {
	defer crypt.Wipe(password)

	v.mut.Lock()
	defer v.mut.Unlock()

	if v.closed {
		return ErrClosed
	}

	key, salt, err := crypt.NewKey(password)
	if err != nil {
		return err
	}

	oldKey, oldSalt := v.key, v.salt
	v.key, v.salt = key, salt
	if err = v.save(); err != nil {
		v.key, v.salt = oldKey, oldSalt
		crypt.Wipe(key, salt)
		return err
	}
	crypt.Wipe(oldKey, oldSalt)

	v.log.Info().Str("path", v.path).Msg("changed vault password")
	return nil
}

// Get a credential by id
func (v *Vault) Get(id string) (credential.Credential, bool) {
	v.mut.Lock()
	defer v.mut.Unlock()

	if v.closed {
		return credential.Credential{}, false
	}

	c, ok := v.creds[id]
	return c, ok
}

// Credentials returns a copy of the registry
func (v *Vault) Credentials() (credential.Map, error) {
	v.mut.Lock()
	defer v.mut.Unlock()

	if v.closed {
		return nil, ErrClosed
	}

	return v.creds.Clone(), nil
}

// Len is the number of credentials
func (v *Vault) Len() int {
	v.mut.Lock()
	defer v.mut.Unlock()

	return len(v.creds)
}

// Path to the vault file
func (v *Vault) Path() string {
	return v.path
}

// Format of the file on disk. FormatNone until the first save of a new vault.
func (v *Vault) Format() Format {
	v.mut.Lock()
	defer v.mut.Unlock()

	return v.format
}

// Tokens computes the codes of every credential at now, see
// credential.Map.Tokens for how partial failure is reported.
func (v *Vault) Tokens(now time.Time) (map[string]credential.Token, error) {
	v.mut.Lock()
	defer v.mut.Unlock()

	if v.closed {
		return nil, ErrClosed
	}

	return v.creds.Tokens(now)
}

// Close wipes the key material and forgets the registry. It is safe to call
// more than once.
func (v *Vault) Close() error {
	v.mut.Lock()
	defer v.mut.Unlock()

	if v.closed {
		return nil
	}

	v.wipe()
	v.closed = true
	return nil
}

func (v *Vault) wipe() {
	crypt.Wipe(v.key, v.salt)
	v.key, v.salt = nil, nil
	v.creds = nil
}
