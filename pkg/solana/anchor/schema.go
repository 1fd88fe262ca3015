package anchor

import (
	"crypto/ed25519"
	"fmt"

	"github.com/pkg/errors"

	"github.com/code-payments/code-actions/pkg/solana"
	"github.com/code-payments/code-actions/pkg/solana/binary"
)

var (
	ErrMissingAccount = errors.New("missing account")
)

// AccountRole is a named account slot in an instruction's account list.
type AccountRole struct {
	Name     string
	Writable bool
	Signer   bool
}

func Writable(name string) AccountRole {
	return AccountRole{Name: name, Writable: true}
}

func WritableSigner(name string) AccountRole {
	return AccountRole{Name: name, Writable: true, Signer: true}
}

func Readonly(name string) AccountRole {
	return AccountRole{Name: name}
}

func ReadonlySigner(name string) AccountRole {
	return AccountRole{Name: name, Signer: true}
}

// Accounts maps role names to the keys filling them.
type Accounts map[string]ed25519.PublicKey

// Schema declares a program call once: its discriminator inputs and the
// ordered account roles. Build fills the roles for a specific call.
type Schema struct {
	Namespace string
	Name      string
	Accounts  []AccountRole

	discriminator [DiscriminatorSize]byte
}

// NewSchema declares an instruction in the global namespace. It panics on an
// empty name or duplicate role names, both of which are programming errors.
func NewSchema(name string, roles ...AccountRole) Schema {
	return NewNamespacedSchema(GlobalNamespace, name, roles...)
}

func NewNamespacedSchema(namespace, name string, roles ...AccountRole) Schema {
	if len(name) == 0 {
		panic("anchor: schema requires a name")
	}

	seen := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		if len(role.Name) == 0 {
			panic(fmt.Sprintf("anchor: %s has an unnamed account role", name))
		}
		if _, ok := seen[role.Name]; ok {
			panic(fmt.Sprintf("anchor: %s declares account role %s twice", name, role.Name))
		}
		seen[role.Name] = struct{}{}
	}

	return Schema{
		Namespace:     namespace,
		Name:          name,
		Accounts:      append([]AccountRole(nil), roles...),
		discriminator: Discriminator(namespace, name),
	}
}

func (s Schema) Discriminator() [DiscriminatorSize]byte {
	return s.discriminator
}

// Build resolves every declared role against accounts, in declared order, and
// returns the instruction with data = discriminator || args.
func (s Schema) Build(program ed25519.PublicKey, accounts Accounts, args []byte) (solana.Instruction, error) {
	if len(program) != ed25519.PublicKeySize {
		return solana.Instruction{}, errors.Wrapf(ErrMissingAccount, "%s: invalid program key", s.Name)
	}

	metas := make([]solana.AccountMeta, len(s.Accounts))
	for i, role := range s.Accounts {
		key, ok := accounts[role.Name]
		if !ok || len(key) != ed25519.PublicKeySize {
			return solana.Instruction{}, errors.Wrapf(ErrMissingAccount, "%s: %s", s.Name, role.Name)
		}

		if role.Writable {
			metas[i] = solana.NewAccountMeta(key, role.Signer)
		} else {
			metas[i] = solana.NewReadonlyAccountMeta(key, role.Signer)
		}
	}

	data := make([]byte, 0, DiscriminatorSize+len(args))
	data = append(data, s.discriminator[:]...)
	data = append(data, args...)

	return solana.NewInstruction(program, data, metas...), nil
}

// BuildBorsh borsh encodes args before building the instruction.
func (s Schema) BuildBorsh(program ed25519.PublicKey, accounts Accounts, args interface{}) (solana.Instruction, error) {
	encoded, err := binary.MarshalBorsh(args)
	if err != nil {
		return solana.Instruction{}, errors.Wrapf(err, "%s args", s.Name)
	}
	return s.Build(program, accounts, encoded)
}

// BuildCompact compact encodes args before building the instruction. A nil
// args builds a discriminator-only instruction.
func (s Schema) BuildCompact(program ed25519.PublicKey, accounts Accounts, args binary.CompactMarshaler) (solana.Instruction, error) {
	if args == nil {
		return s.Build(program, accounts, nil)
	}

	encoded, err := binary.MarshalCompact(args)
	if err != nil {
		return solana.Instruction{}, errors.Wrapf(err, "%s args", s.Name)
	}
	return s.Build(program, accounts, encoded)
}
