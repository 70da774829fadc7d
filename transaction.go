package epoch

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/0xBreath/epoch-app/crypto"
	"github.com/0xBreath/epoch-app/internal/util"
)

// AccountMeta names an account an instruction touches and how.
type AccountMeta struct {
	Key        crypto.PublicKey
	IsSigner   bool
	IsWritable bool
}

// Instruction is a single program invocation: target program, touched
// accounts, and the program-defined data payload.
type Instruction struct {
	ProgramID crypto.PublicKey
	Accounts  []AccountMeta
	Data      []byte
}

// InstructionDiscriminator derives the 8-byte discriminator prefix for a
// named program instruction.
func InstructionDiscriminator(name string) []byte {
	return util.Sha256([]byte("global:" + name))[:8]
}

// AccountDiscriminator derives the 8-byte discriminator prefix stored at the
// front of a program account's data.
func AccountDiscriminator(name string) []byte {
	return util.Sha256([]byte("account:" + name))[:8]
}

// Transaction is an unsigned bundle of instructions with a fee payer.
type Transaction struct {
	FeePayer     crypto.PublicKey
	Instructions []Instruction
}

// SignedTransaction pairs a serialized message with the signatures of every
// required signer, in [Transaction.RequiredSigners] order.
type SignedTransaction struct {
	Message    []byte
	Signatures [][]byte
}

// NewTransaction bundles instructions under a fee payer.
func NewTransaction(feePayer crypto.PublicKey, instructions []Instruction) *Transaction {
	return &Transaction{FeePayer: feePayer, Instructions: instructions}
}

// RequiredSigners lists the fee payer followed by every signer account meta,
// deduplicated in first-seen order.
func (txn *Transaction) RequiredSigners() []crypto.PublicKey {
	seen := map[crypto.PublicKey]bool{txn.FeePayer: true}
	signers := []crypto.PublicKey{txn.FeePayer}
	for _, ix := range txn.Instructions {
		for _, meta := range ix.Accounts {
			if meta.IsSigner && !seen[meta.Key] {
				seen[meta.Key] = true
				signers = append(signers, meta.Key)
			}
		}
	}
	return signers
}

const (
	accountFlagSigner   = 1 << 0
	accountFlagWritable = 1 << 1
)

// SerializeMessage produces the canonical signable message bytes.
func (txn *Transaction) SerializeMessage() []byte {
	var buf bytes.Buffer
	buf.Write(txn.FeePayer[:])
	writeU16(&buf, uint16(len(txn.Instructions)))
	for _, ix := range txn.Instructions {
		buf.Write(ix.ProgramID[:])
		writeU16(&buf, uint16(len(ix.Accounts)))
		for _, meta := range ix.Accounts {
			buf.Write(meta.Key[:])
			var flags byte
			if meta.IsSigner {
				flags |= accountFlagSigner
			}
			if meta.IsWritable {
				flags |= accountFlagWritable
			}
			buf.WriteByte(flags)
		}
		writeU32(&buf, uint32(len(ix.Data)))
		buf.Write(ix.Data)
	}
	return buf.Bytes()
}

// Sign produces a [SignedTransaction], matching each required signer to one
// of the provided [crypto.TransactionSigner]s.
func (txn *Transaction) Sign(signers ...crypto.TransactionSigner) (*SignedTransaction, error) {
	message := txn.SerializeMessage()
	byKey := make(map[crypto.PublicKey]crypto.TransactionSigner, len(signers))
	for _, signer := range signers {
		byKey[signer.PublicKey()] = signer
	}

	required := txn.RequiredSigners()
	signatures := make([][]byte, 0, len(required))
	for _, key := range required {
		signer, ok := byKey[key]
		if !ok {
			return nil, fmt.Errorf("missing signer for %s", key)
		}
		sig, err := signer.Sign(message)
		if err != nil {
			return nil, fmt.Errorf("sign with %s: %w", key, err)
		}
		signatures = append(signatures, sig)
	}
	return &SignedTransaction{Message: message, Signatures: signatures}, nil
}

// Serialize produces the wire form submitted to the ledger: a one-byte
// signature count, the signatures, then the message.
func (txn *SignedTransaction) Serialize() []byte {
	var buf bytes.Buffer
	buf.WriteByte(byte(len(txn.Signatures)))
	for _, sig := range txn.Signatures {
		buf.Write(sig)
	}
	buf.Write(txn.Message)
	return buf.Bytes()
}

// SendTransaction signs the instructions with the fee payer plus any extra
// required signers and submits them as a single transaction.
func SendTransaction(conn Connection, instructions []Instruction, feePayer crypto.TransactionSigner, extra ...crypto.TransactionSigner) (string, error) {
	txn := NewTransaction(feePayer.PublicKey(), instructions)
	signed, err := txn.Sign(append([]crypto.TransactionSigner{feePayer}, extra...)...)
	if err != nil {
		return "", err
	}
	return conn.SendTransaction(signed)
}

// decodeTransactionMessage is the inverse of [Transaction.SerializeMessage].
// The in-memory ledger fake in the tests uses it to replay instructions.
func decodeTransactionMessage(message []byte) (*Transaction, error) {
	reader := bytes.NewReader(message)
	txn := &Transaction{}
	if _, err := reader.Read(txn.FeePayer[:]); err != nil {
		return nil, err
	}
	ixCount, err := readU16(reader)
	if err != nil {
		return nil, err
	}
	for i := uint16(0); i < ixCount; i++ {
		var ix Instruction
		if _, err := reader.Read(ix.ProgramID[:]); err != nil {
			return nil, err
		}
		accountCount, err := readU16(reader)
		if err != nil {
			return nil, err
		}
		for j := uint16(0); j < accountCount; j++ {
			var meta AccountMeta
			if _, err := reader.Read(meta.Key[:]); err != nil {
				return nil, err
			}
			flags, err := reader.ReadByte()
			if err != nil {
				return nil, err
			}
			meta.IsSigner = flags&accountFlagSigner != 0
			meta.IsWritable = flags&accountFlagWritable != 0
			ix.Accounts = append(ix.Accounts, meta)
		}
		var dataLen uint32
		if err := binary.Read(reader, binary.LittleEndian, &dataLen); err != nil {
			return nil, err
		}
		ix.Data = make([]byte, dataLen)
		if _, err := reader.Read(ix.Data); err != nil {
			return nil, err
		}
		txn.Instructions = append(txn.Instructions, ix)
	}
	return txn, nil
}

func writeU16(buf *bytes.Buffer, v uint16) {
	_ = binary.Write(buf, binary.LittleEndian, v)
}

func writeU32(buf *bytes.Buffer, v uint32) {
	_ = binary.Write(buf, binary.LittleEndian, v)
}

func writeU64(buf *bytes.Buffer, v uint64) {
	_ = binary.Write(buf, binary.LittleEndian, v)
}

func readU16(reader *bytes.Reader) (uint16, error) {
	var v uint16
	err := binary.Read(reader, binary.LittleEndian, &v)
	return v, err
}
