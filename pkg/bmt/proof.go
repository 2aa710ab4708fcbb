// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bmt

import (
	"bytes"

	"github.com/nullisxyz/nectar/pkg/swarm"
)

// Prover wraps the Hasher to allow Merkle proof functionality
type Prover struct {
	*Hasher
}

// Proof represents a Merkle proof of segment
type Proof struct {
	// ProveSegment holds the exact bytes of the proven segment as they were
	// hashed into the tree, i.e. zero padded if the segment was partial.
	ProveSegment []byte
	// ProofSegments is the authentication path ordered from the leaf level
	// up, root excluded. The first element is the raw sister segment sharing
	// a section with the proven segment, the rest are subtree root hashes.
	// The side each element joins on is given by the bits of Index.
	ProofSegments [][]byte
	Span          []byte
	Index         int
}

// Proof returns the inclusion proof of the i-th data segment of the chunk
// last hashed. It must be called after Hash, while the tree is retained.
func (p Prover) Proof(i int) (Proof, error) {
	if i < 0 || i >= p.segmentCount {
		return Proof{}, ErrInvalidIndex
	}

	sec := i / 2
	if p.size == 0 || sec > p.pos {
		// the segment lies wholly in the zero padded region, outside the
		// sections processed by the last hash; the tree nodes on its path
		// carry no fresh values, so derive the path from the padded data
		sisters, err := InclusionProofSegments(p.bmt.buffer[:p.size], i, p.maxSize)
		if err != nil {
			return Proof{}, err
		}
		return Proof{
			ProveSegment:  make([]byte, p.segmentSize),
			ProofSegments: sisters,
			Span:          append([]byte{}, p.span...),
			Index:         i,
		}, nil
	}

	n := p.bmt.leaves[sec]
	isLeft := n.isLeft
	var sisters [][]byte
	for n = n.parent; n != nil; n = n.parent {
		sisters = append(sisters, n.getSister(isLeft))
		isLeft = n.isLeft
	}

	secsize := 2 * p.segmentSize
	offset := sec * secsize
	section := p.bmt.buffer[offset : offset+secsize]
	segment, firstSister := section[:p.segmentSize], section[p.segmentSize:]
	if i%2 != 0 {
		segment, firstSister = firstSister, segment
	}
	sisters = append([][]byte{append([]byte{}, firstSister...)}, sisters...)

	return Proof{
		ProveSegment:  append([]byte{}, segment...),
		ProofSegments: sisters,
		Span:          append([]byte{}, p.span...),
		Index:         i,
	}, nil
}

// Verify returns the bmt hash obtained from the proof which can then be checked against
// the BMT hash of the chunk
func (p Prover) Verify(i int, proof Proof) (root []byte, err error) {
	if i < 0 || i >= p.segmentCount {
		return nil, ErrInvalidIndex
	}

	var section []byte
	if i%2 == 0 {
		section = append(append([]byte{}, proof.ProveSegment...), proof.ProofSegments[0]...)
	} else {
		section = append(append([]byte{}, proof.ProofSegments[0]...), proof.ProveSegment...)
	}
	i = i / 2

	n := p.bmt.leaves[i]
	isLeft := n.isLeft
	root, err = doHash(n.hasher, section)
	if err != nil {
		return nil, err
	}
	n = n.parent

	for _, sister := range proof.ProofSegments[1:] {
		if isLeft {
			root, err = doHash(n.hasher, root, sister)
		} else {
			root, err = doHash(n.hasher, sister, root)
		}
		if err != nil {
			return nil, err
		}
		isLeft = n.isLeft
		n = n.parent
	}
	return doHash(p.hasher(), proof.Span, root)
}

// Verify recomputes the chunk address committed to by the proof and reports
// whether it matches the expected address. It holds no shared state and is
// safe for concurrent use. A mismatch is a routine negative outcome, not an
// error.
func (pr Proof) Verify(expected swarm.Address) (bool, error) {
	root, err := RootHashFromInclusionProof(pr.ProofSegments, pr.ProveSegment, pr.Index)
	if err != nil {
		return false, err
	}
	addr, err := Sha3hash(pr.Span, root)
	if err != nil {
		return false, err
	}
	return bytes.Equal(addr, expected.Bytes()), nil
}

// InclusionProofSegments returns the authentication path of the segment at
// segmentIdx over data zero padded to maxDataLen bytes. The path is ordered
// from the leaf level up, root excluded; its first element is the raw sister
// segment.
func InclusionProofSegments(data []byte, segmentIdx, maxDataLen int) ([][]byte, error) {
	count := maxDataLen / SegmentSize
	if segmentIdx < 0 || segmentIdx >= count {
		return nil, ErrInvalidIndex
	}
	buffer := make([]byte, maxDataLen)
	copy(buffer, data)

	sister := segmentIdx ^ 1
	segments := [][]byte{append([]byte{}, buffer[sister*SegmentSize:(sister+1)*SegmentSize]...)}

	// hash the base sections, then pair up hashes level by level
	h := swarm.NewHasher()
	level := make([][]byte, count/2)
	for j := range level {
		s, err := doHash(h, buffer[j*SegmentPairSize:(j+1)*SegmentPairSize])
		if err != nil {
			return nil, err
		}
		level[j] = s
	}
	for idx := segmentIdx / 2; len(level) > 1; idx /= 2 {
		segments = append(segments, level[idx^1])
		next := make([][]byte, len(level)/2)
		for j := range next {
			s, err := doHash(h, level[2*j], level[2*j+1])
			if err != nil {
				return nil, err
			}
			next[j] = s
		}
		level = next
	}
	return segments, nil
}

// RootHashFromInclusionProof recomputes the BMT root hash from a segment,
// its index and its authentication path.
func RootHashFromInclusionProof(proofSegments [][]byte, proveSegment []byte, segmentIdx int) ([]byte, error) {
	if segmentIdx < 0 {
		return nil, ErrInvalidIndex
	}

	h := swarm.NewHasher()
	calculated := append([]byte{}, proveSegment...)
	for _, proofSegment := range proofSegments {
		var err error
		if segmentIdx%2 == 0 {
			calculated, err = doHash(h, calculated, proofSegment)
		} else {
			calculated, err = doHash(h, proofSegment, calculated)
		}
		if err != nil {
			return nil, err
		}
		segmentIdx /= 2
	}
	return calculated, nil
}
