// Package volume provides the label volume type used by the segmentation
// metrics, along with class extraction and per-class mask construction.
// A label volume is a 3D grid of discrete class identifiers stored as a
// flat array in row-major order (height, width, depth).
package volume

import (
	"fmt"
	"sort"
)

// LabelVolume represents a 3D volume of class labels
type LabelVolume struct {
	// Data is the label data as a 1D array in row-major order,
	// with the depth axis varying fastest
	Data []int32

	// Shape holds the axis lengths in order height, width, depth.
	// A shape with fewer than three axes is representable but cannot
	// be used by any metric; Dims reports it as ErrShape.
	Shape []int
}

// New allocates a zero-filled label volume with the given axis lengths.
func New(shape ...int) *LabelVolume {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return &LabelVolume{
		Data:  make([]int32, n),
		Shape: append([]int(nil), shape...),
	}
}

// FromData builds a label volume around an existing flat label array.
// The product of the axis lengths must match the data length.
func FromData(data []int32, shape ...int) (*LabelVolume, error) {
	n := 1
	for _, s := range shape {
		n *= s
	}
	if n != len(data) {
		return nil, fmt.Errorf("volume: shape %v implies %d voxels, got %d", shape, n, len(data))
	}
	return &LabelVolume{
		Data:  data,
		Shape: append([]int(nil), shape...),
	}, nil
}

// Dims returns the height, width and depth of the volume.
// It fails with ErrShape when the volume has fewer than three axes.
func (v *LabelVolume) Dims() (height, width, depth int, err error) {
	if len(v.Shape) < 3 {
		return 0, 0, 0, fmt.Errorf("cannot take height, width, depth of rank-%d volume: %w", len(v.Shape), ErrShape)
	}
	return v.Shape[0], v.Shape[1], v.Shape[2], nil
}

// VoxelCount returns the total number of voxels, height * width * depth.
func (v *LabelVolume) VoxelCount() (int, error) {
	h, w, d, err := v.Dims()
	if err != nil {
		return 0, err
	}
	return h * w * d, nil
}

// SameDims reports whether two volumes share height, width and depth.
// It fails with ErrShape when either volume has fewer than three axes.
func SameDims(a, b *LabelVolume) (bool, error) {
	ha, wa, da, err := a.Dims()
	if err != nil {
		return false, err
	}
	hb, wb, db, err := b.Dims()
	if err != nil {
		return false, err
	}
	return ha == hb && wa == wb && da == db, nil
}

// SliceAt extracts the 1-deep slab at position i along the first axis
// as a new volume of shape (1, width, depth). The slab shares no
// storage with the source volume.
func (v *LabelVolume) SliceAt(i int) (*LabelVolume, error) {
	h, w, d, err := v.Dims()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= h {
		return nil, fmt.Errorf("volume: slice index %d out of range [0,%d)", i, h)
	}
	slab := make([]int32, w*d)
	copy(slab, v.Data[i*w*d:(i+1)*w*d])
	return &LabelVolume{Data: slab, Shape: []int{1, w, d}}, nil
}

// Classes returns the sorted distinct labels occurring in the volume
// and their count. The result is recomputed on every call.
func Classes(v *LabelVolume) ([]int32, int) {
	seen := make(map[int32]struct{})
	for _, label := range v.Data {
		seen[label] = struct{}{}
	}

	cl := make([]int32, 0, len(seen))
	for label := range seen {
		cl = append(cl, label)
	}
	sort.Slice(cl, func(i, j int) bool { return cl[i] < cl[j] })

	return cl, len(cl)
}

// UnionClasses returns the sorted, deduplicated union of the distinct
// labels found independently in each volume.
func UnionClasses(evalSegm, gtSegm *LabelVolume) ([]int32, int) {
	evalCl, _ := Classes(evalSegm)
	gtCl, _ := Classes(gtSegm)

	seen := make(map[int32]struct{}, len(evalCl)+len(gtCl))
	for _, label := range evalCl {
		seen[label] = struct{}{}
	}
	for _, label := range gtCl {
		seen[label] = struct{}{}
	}

	cl := make([]int32, 0, len(seen))
	for label := range seen {
		cl = append(cl, label)
	}
	sort.Slice(cl, func(i, j int) bool { return cl[i] < cl[j] })

	return cl, len(cl)
}

// MaskStack holds one boolean indicator mask per class. Slice i of the
// stack is true wherever the source volume equals Classes[i], so two
// stacks built against the same class set are index-aligned.
type MaskStack struct {
	// Masks holds one flat boolean mask per class, each of length
	// height * width * depth of the source volume
	Masks [][]bool

	// Classes is the class set the stack was built against
	Classes []int32
}

// Count returns the number of true voxels in mask slice i.
func (m *MaskStack) Count(i int) int {
	n := 0
	for _, set := range m.Masks[i] {
		if set {
			n++
		}
	}
	return n
}

// Intersection returns the number of voxels set in slice i of both
// this stack and the other. The stacks must have been built against
// the same class set for the result to be meaningful. When the stacks
// come from volumes of different sizes, only the voxels both masks
// define are compared.
func (m *MaskStack) Intersection(other *MaskStack, i int) int {
	limit := len(m.Masks[i])
	if len(other.Masks[i]) < limit {
		limit = len(other.Masks[i])
	}

	n := 0
	for j := 0; j < limit; j++ {
		if m.Masks[i][j] && other.Masks[i][j] {
			n++
		}
	}
	return n
}

// ExtractMasks builds the per-class mask stack for a volume against the
// given class set. It fails with ErrShape when the volume has fewer
// than three axes.
func ExtractMasks(segm *LabelVolume, cl []int32) (*MaskStack, error) {
	h, w, d, err := segm.Dims()
	if err != nil {
		return nil, err
	}

	masks := make([][]bool, len(cl))
	for i, c := range cl {
		mask := make([]bool, h*w*d)
		for j := range mask {
			mask[j] = segm.Data[j] == c
		}
		masks[i] = mask
	}

	return &MaskStack{Masks: masks, Classes: append([]int32(nil), cl...)}, nil
}

// ExtractBothMasks builds mask stacks for the evaluation and ground
// truth volumes against the same class set, so per-class statistics
// can be compared index-by-index even when the two volumes' own class
// sets differ.
func ExtractBothMasks(evalSegm, gtSegm *LabelVolume, cl []int32) (evalMask, gtMask *MaskStack, err error) {
	evalMask, err = ExtractMasks(evalSegm, cl)
	if err != nil {
		return nil, nil, err
	}
	gtMask, err = ExtractMasks(gtSegm, cl)
	if err != nil {
		return nil, nil, err
	}
	return evalMask, gtMask, nil
}
