package model

import (
	"crypto/subtle"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// CredentialFormat tags how a stored secret must be compared.
// FormatPlain records predate the move to bcrypt and get migrated to
// FormatHashed on their first successful login.
type CredentialFormat string

const (
	FormatHashed CredentialFormat = "bcrypt"
	FormatPlain  CredentialFormat = "plain"
)

var ErrBadCredential = errors.New("credential mismatch")

type Credential struct {
	Format CredentialFormat `bson:"format"`
	Secret []byte           `bson:"secret"`
}

type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username   string             `bson:"username" json:"username"`
	Email      string             `bson:"email" json:"email"`
	Credential Credential         `bson:"credential" json:"-"`
	Role       Role               `bson:"role" json:"role"`
	CreatedAt  primitive.DateTime `bson:"created_at" json:"-"`
	UpdatedAt  primitive.DateTime `bson:"updated_at" json:"-"`
}

// Verify checks secret against the stored Credential, dispatching on the
// format tag. Returns ErrBadCredential on mismatch.
func (c Credential) Verify(secret []byte) error {
	switch c.Format {
	case FormatPlain:
		if subtle.ConstantTimeCompare(c.Secret, secret) != 1 {
			return ErrBadCredential
		}
		return nil
	default:
		if err := bcrypt.CompareHashAndPassword(c.Secret, secret); err != nil {
			return ErrBadCredential
		}
		return nil
	}
}

// NewHashedCredential bcrypt-hashes secret into a FormatHashed Credential.
func NewHashedCredential(secret []byte) (Credential, error) {
	hash, err := bcrypt.GenerateFromPassword(secret, bcrypt.DefaultCost)
	if err != nil {
		return Credential{}, errors.Wrap(err, "error generating bcrypt hash from secret")
	}
	return Credential{Format: FormatHashed, Secret: hash}, nil
}
