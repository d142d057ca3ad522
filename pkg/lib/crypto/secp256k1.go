package crypto

import (
	"crypto/sha256"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// Secp256k1KeyPair is the alternate, single-key Identity scheme: one
// secp256k1 key serves both signing (ECDSA) and agreement (ECDH), unlike
// the default hybrid scheme's two separate keys.
type Secp256k1KeyPair struct {
	Private *secp256k1.PrivateKey
}

// GenerateSecp256k1KeyPair creates a fresh secp256k1 key.
func GenerateSecp256k1KeyPair() (*Secp256k1KeyPair, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return &Secp256k1KeyPair{Private: priv}, nil
}

// Secp256k1KeyPairFromBytes reconstructs a key from its 32-byte scalar.
func Secp256k1KeyPairFromBytes(b []byte) (*Secp256k1KeyPair, error) {
	if len(b) != 32 {
		return nil, ErrInvalidKeySize
	}
	return &Secp256k1KeyPair{Private: secp256k1.PrivKeyFromBytes(b)}, nil
}

// Bytes returns the 32-byte private scalar, the form persisted on disk.
func (kp *Secp256k1KeyPair) Bytes() []byte {
	return kp.Private.Serialize()
}

// PublicBytes returns the 33-byte compressed public key.
func (kp *Secp256k1KeyPair) PublicBytes() []byte {
	return kp.Private.PubKey().SerializeCompressed()
}

// Sign produces a DER-encoded ECDSA signature over sha256(data).
func (kp *Secp256k1KeyPair) Sign(data []byte) []byte {
	digest := sha256.Sum256(data)
	return ecdsa.Sign(kp.Private, digest[:]).Serialize()
}

// VerifySecp256k1Signature verifies a DER-encoded signature, as produced by
// Sign, against a 33-byte compressed public key.
func VerifySecp256k1Signature(pubBytes, data, sig []byte) bool {
	pub, err := secp256k1.ParsePubKey(pubBytes)
	if err != nil {
		return false
	}
	parsed, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false
	}
	digest := sha256.Sum256(data)
	return parsed.Verify(digest[:], pub)
}

// Agree derives an ECDH shared secret against a peer's 33-byte compressed
// public key, the secp256k1-scheme analogue of AgreementKeyPair.Agree. It
// does its own point arithmetic rather than lean on decred's internal
// Jacobian types, which aren't meant as a public ECDH API.
func (kp *Secp256k1KeyPair) Agree(peerPubBytes []byte) ([]byte, error) {
	x, y := secp256k1DecompressPoint(peerPubBytes)
	if x == nil {
		return nil, ErrInvalidSignature
	}
	d := new(big.Int).SetBytes(kp.Private.Serialize())
	sx, sy := secp256k1ScalarMult(x, y, d.Bytes())
	if sx == nil {
		return nil, ErrInvalidSignature
	}
	digest := sha256.Sum256(append(secp256k1PaddedBytes(sx, 32), secp256k1PaddedBytes(sy, 32)...))
	return digest[:], nil
}

// ============================================================================
//                   minimal secp256k1 point arithmetic (ECDH only)
// ============================================================================
//
// decred/dcrd covers keygen, signing and verification above; this section
// exists only because decred's scalar-multiplication types are internal.

var (
	secp256k1P, _  = new(big.Int).SetString("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFC2F", 16)
	secp256k1N, _  = new(big.Int).SetString("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141", 16)
	secp256k1B     = big.NewInt(7)
)

func secp256k1PaddedBytes(n *big.Int, length int) []byte {
	b := n.Bytes()
	if len(b) >= length {
		return b[len(b)-length:]
	}
	padded := make([]byte, length)
	copy(padded[length-len(b):], b)
	return padded
}

// secp256k1DecompressPoint recovers (x, y) from a 33-byte compressed key.
func secp256k1DecompressPoint(data []byte) (*big.Int, *big.Int) {
	if len(data) != 33 || (data[0] != 0x02 && data[0] != 0x03) {
		return nil, nil
	}
	x := new(big.Int).SetBytes(data[1:])

	x3 := new(big.Int).Exp(x, big.NewInt(3), secp256k1P)
	y2 := new(big.Int).Add(x3, secp256k1B)
	y2.Mod(y2, secp256k1P)

	exp := new(big.Int).Rsh(new(big.Int).Add(secp256k1P, big.NewInt(1)), 2)
	y := new(big.Int).Exp(y2, exp, secp256k1P)

	check := new(big.Int).Exp(y, big.NewInt(2), secp256k1P)
	if check.Cmp(y2) != 0 {
		return nil, nil
	}
	if (data[0] == 0x02) != (y.Bit(0) == 0) {
		y.Sub(secp256k1P, y)
	}
	return x, y
}

func secp256k1ScalarMult(px, py *big.Int, k []byte) (*big.Int, *big.Int) {
	kInt := new(big.Int).SetBytes(k)
	if kInt.Sign() == 0 {
		return nil, nil
	}
	var rx, ry *big.Int
	tx, ty := new(big.Int).Set(px), new(big.Int).Set(py)
	for i := kInt.BitLen() - 1; i >= 0; i-- {
		if rx != nil {
			rx, ry = secp256k1Double(rx, ry)
		}
		if kInt.Bit(i) == 1 {
			if rx == nil {
				rx, ry = new(big.Int).Set(tx), new(big.Int).Set(ty)
			} else {
				rx, ry = secp256k1Add(rx, ry, tx, ty)
			}
		}
	}
	return rx, ry
}

func secp256k1Add(x1, y1, x2, y2 *big.Int) (*big.Int, *big.Int) {
	if x1.Cmp(x2) == 0 {
		if y1.Cmp(y2) == 0 {
			return secp256k1Double(x1, y1)
		}
		return nil, nil
	}
	dy := new(big.Int).Sub(y2, y1)
	dx := new(big.Int).Sub(x2, x1)
	dxInv := new(big.Int).ModInverse(dx, secp256k1P)
	if dxInv == nil {
		return nil, nil
	}
	lambda := new(big.Int).Mod(new(big.Int).Mul(dy, dxInv), secp256k1P)

	x3 := new(big.Int).Mod(new(big.Int).Sub(new(big.Int).Sub(new(big.Int).Mul(lambda, lambda), x1), x2), secp256k1P)
	y3 := new(big.Int).Mod(new(big.Int).Sub(new(big.Int).Mul(lambda, new(big.Int).Sub(x1, x3)), y1), secp256k1P)
	return x3, y3
}

func secp256k1Double(x, y *big.Int) (*big.Int, *big.Int) {
	if y.Sign() == 0 {
		return nil, nil
	}
	num := new(big.Int).Mul(big.NewInt(3), new(big.Int).Mul(x, x))
	den := new(big.Int).Mul(big.NewInt(2), y)
	denInv := new(big.Int).ModInverse(den, secp256k1P)
	if denInv == nil {
		return nil, nil
	}
	lambda := new(big.Int).Mod(new(big.Int).Mul(num, denInv), secp256k1P)

	x3 := new(big.Int).Mod(new(big.Int).Sub(new(big.Int).Mul(lambda, lambda), new(big.Int).Mul(big.NewInt(2), x)), secp256k1P)
	y3 := new(big.Int).Mod(new(big.Int).Sub(new(big.Int).Mul(lambda, new(big.Int).Sub(x, x3)), y), secp256k1P)
	return x3, y3
}
