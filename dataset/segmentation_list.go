// Package dataset indexes paired image/label samples for semantic
// segmentation, remapping raw label ids into a training id space. It is
// built for domain adaptation settings where the dataset's label ids and
// the model's train ids differ.
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/seglist/codec"
	"github.com/tsawler/seglist/sample"
	"github.com/tsawler/seglist/transform"
)

// IgnoreLabel marks pixels excluded from loss and metrics
const IgnoreLabel int32 = 255

// ErrIndexOutOfRange reports a sample index outside [0, Len())
var ErrIndexOutOfRange = errors.New("dataset: index out of range")

// ListParser parses a list file into an ordered sequence of relative
// sample paths. Supply a custom parser for list files that are not plain
// one-path-per-line text.
type ListParser func(path string) ([]string, error)

// Config holds the optional knobs of a SegmentationList. The zero value
// is usable: no normalization, no id remap, default file codec and
// line-per-entry list parsing. Transform has no default and must be set
// before samples are fetched.
type Config struct {
	// Mean is the per-channel value subtracted from images after the
	// RGB->BGR reorder, so its channel order is BGR. Nil disables
	// normalization.
	Mean *[3]float32

	// IDToTrainID maps raw label ids to train ids. Pixels whose raw id
	// has no entry become IgnoreLabel. Nil leaves every output pixel at
	// IgnoreLabel.
	IDToTrainID map[int32]int32

	// TrainIDToColor is a dense color table indexed by train id, used
	// only by DecodeTarget. It needs NumClasses()+1 entries: the last
	// one is the color of IgnoreLabel pixels.
	TrainIDToColor [][3]uint8

	// Transform is the jointly applied augmentation. It is a required
	// collaborator of GetItem; fetching without one configured fails.
	Transform transform.Paired

	// Codec loads image and label files. Defaults to codec.FileCodec.
	Codec codec.Codec

	// ParseDataList and ParseLabelList override list-file parsing.
	// Both default to ParseListFile.
	ParseDataList  ListParser
	ParseLabelList ListParser

	// Validate enables eager construction-time checks (equal list
	// lengths, transform present, color table large enough). Off by
	// default: malformed configuration then surfaces at the first
	// out-of-range access instead.
	Validate bool
}

// SegmentationList is an index over paired image/label files listed in
// two parallel list files. Element i of the data list and element i of
// the label list describe the same sample; the correspondence is
// positional and never content-validated.
//
// The index is immutable after construction and GetItem allocates fresh
// arrays per call, so a SegmentationList is safe for concurrent use by
// parallel loader workers.
type SegmentationList struct {
	root        string
	classes     []string
	dataFolder  string
	labelFolder string

	mean           *[3]float32
	idToTrainID    map[int32]int32
	trainIDToColor [][3]uint8
	transform      transform.Paired
	codec          codec.Codec

	dataList  []string
	labelList []string
}

// New builds a SegmentationList by reading the two list files. Each line
// of a list file is one relative path under root/dataFolder (data list)
// or root/labelFolder (label list). It fails if either list file cannot
// be read. Unless cfg.Validate is set, the two lists are not checked for
// equal length; a mismatch surfaces as ErrIndexOutOfRange at fetch time.
func New(root string, classes []string, dataListFile, labelListFile, dataFolder, labelFolder string, cfg Config) (*SegmentationList, error) {
	parseData := cfg.ParseDataList
	if parseData == nil {
		parseData = ParseListFile
	}
	parseLabel := cfg.ParseLabelList
	if parseLabel == nil {
		parseLabel = ParseListFile
	}

	dataList, err := parseData(dataListFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read data list: %w", err)
	}
	labelList, err := parseLabel(labelListFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read label list: %w", err)
	}

	c := cfg.Codec
	if c == nil {
		c = codec.FileCodec{}
	}

	s := &SegmentationList{
		root:           root,
		classes:        append([]string(nil), classes...),
		dataFolder:     dataFolder,
		labelFolder:    labelFolder,
		mean:           cfg.Mean,
		idToTrainID:    copyIDMap(cfg.IDToTrainID),
		trainIDToColor: copyColorTable(cfg.TrainIDToColor),
		transform:      cfg.Transform,
		codec:          c,
		dataList:       dataList,
		labelList:      labelList,
	}

	if cfg.Validate {
		if err := s.validate(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ParseListFile reads one relative path per line, trimming surrounding
// whitespace. Parsing is line-for-line: blank lines are kept as empty
// entries so that positional correspondence with the sibling list is
// never shifted. A single trailing newline at end of file adds no entry,
// but an extra blank line does, which silently desynchronizes the pair
// of lists; keep list files free of stray blank lines.
func ParseListFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var list []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		list = append(list, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *SegmentationList) validate() error {
	if len(s.dataList) != len(s.labelList) {
		return fmt.Errorf("dataset: data list has %d entries, label list has %d", len(s.dataList), len(s.labelList))
	}
	if s.transform == nil {
		return fmt.Errorf("dataset: no paired transform configured")
	}
	if s.trainIDToColor != nil && len(s.trainIDToColor) < len(s.classes)+1 {
		return fmt.Errorf("dataset: color table has %d entries, need at least %d", len(s.trainIDToColor), len(s.classes)+1)
	}
	return nil
}

// Len returns the number of samples in the index
func (s *SegmentationList) Len() int {
	return len(s.dataList)
}

// NumClasses returns the number of classes
func (s *SegmentationList) NumClasses() int {
	return len(s.classes)
}

// Classes returns a copy of the ordered class names
func (s *SegmentationList) Classes() []string {
	return append([]string(nil), s.classes...)
}

// GetItem loads, transforms and normalizes the sample at index. The
// returned image is a (3, H, W) float32 array in BGR channel order with
// the configured mean subtracted; the returned label is an (H, W) int32
// array of train ids where every pixel not covered by the id remap is
// IgnoreLabel. Both arrays are freshly allocated on every call.
func (s *SegmentationList) GetItem(index int) (*sample.Image, *sample.LabelMap, error) {
	if index < 0 || index >= len(s.dataList) {
		return nil, nil, fmt.Errorf("%w: index %d not in [0, %d)", ErrIndexOutOfRange, index, len(s.dataList))
	}
	if index >= len(s.labelList) {
		return nil, nil, fmt.Errorf("%w: index %d not in [0, %d) of the label list", ErrIndexOutOfRange, index, len(s.labelList))
	}
	if s.transform == nil {
		return nil, nil, fmt.Errorf("dataset: no paired transform configured")
	}

	imagePath := filepath.Join(s.root, s.dataFolder, s.dataList[index])
	labelPath := filepath.Join(s.root, s.labelFolder, s.labelList[index])

	img, err := s.codec.DecodeImage(imagePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load image %s: %w", imagePath, err)
	}
	lbl, err := s.codec.DecodeLabel(labelPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load label %s: %w", labelPath, err)
	}

	img, lbl, err = s.transform.Apply(img, lbl)
	if err != nil {
		return nil, nil, fmt.Errorf("transform failed: %w", err)
	}

	im := sample.ImageFromPicture(img)
	label := s.remapLabel(sample.LabelFromPicture(lbl))

	im.ReverseChannels()
	if s.mean != nil {
		im.SubtractMean(*s.mean)
	}

	return im.ToCHW(), label, nil
}

// remapLabel builds a fresh train-id map from raw label values. Pixels
// whose raw id has no entry in the remap stay at IgnoreLabel.
func (s *SegmentationList) remapLabel(raw *sample.LabelMap) *sample.LabelMap {
	out := sample.NewLabelMap(raw.Height, raw.Width, IgnoreLabel)
	for rawID, trainID := range s.idToTrainID {
		for i, v := range raw.Data {
			if v == rawID {
				out.Data[i] = trainID
			}
		}
	}
	return out
}

// DecodeInput recovers a displayable RGB image from a fetched (3, H, W)
// array: transpose back to H x W x 3, add the mean back (a nil mean adds
// nothing), reorder BGR back to RGB and clamp to 8-bit samples.
func (s *SegmentationList) DecodeInput(im *sample.Image) (*image.RGBA, error) {
	hwc := im.ToHWC()
	if s.mean != nil {
		hwc.AddMean(*s.mean)
	}
	hwc.ReverseChannels()
	return hwc.ToPicture()
}

// DecodeTarget renders an (H, W) train-id array as an RGB image using
// the configured color table. IgnoreLabel pixels take the table entry at
// NumClasses(), so the table needs NumClasses()+1 entries; a train id
// outside the table is a hard error. The caller's array is not modified.
func (s *SegmentationList) DecodeTarget(target *sample.LabelMap) (*image.RGBA, error) {
	unknown := int32(len(s.classes))

	out := image.NewRGBA(image.Rect(0, 0, target.Width, target.Height))
	for y := 0; y < target.Height; y++ {
		for x := 0; x < target.Width; x++ {
			v := target.At(y, x)
			if v == IgnoreLabel {
				v = unknown
			}
			if v < 0 || int(v) >= len(s.trainIDToColor) {
				return nil, fmt.Errorf("dataset: train id %d has no color (table size %d)", v, len(s.trainIDToColor))
			}
			c := s.trainIDToColor[v]
			out.SetRGBA(x, y, color.RGBA{R: c[0], G: c[1], B: c[2], A: 255})
		}
	}
	return out, nil
}

// CollectImagePaths returns the resolved path of every image in the
// index, in list order. Pure path composition, no filesystem access.
func (s *SegmentationList) CollectImagePaths() []string {
	paths := make([]string, len(s.dataList))
	for i, name := range s.dataList {
		paths[i] = filepath.Join(s.root, s.dataFolder, name)
	}
	return paths
}

// CollectLabelPaths returns the resolved path of every label in the
// index, in list order. Pure path composition, no filesystem access.
func (s *SegmentationList) CollectLabelPaths() []string {
	paths := make([]string, len(s.labelList))
	for i, name := range s.labelList {
		paths[i] = filepath.Join(s.root, s.labelFolder, name)
	}
	return paths
}

func (s *SegmentationList) String() string {
	return fmt.Sprintf("SegmentationList: %d samples, %d classes", len(s.dataList), len(s.classes))
}

func copyIDMap(m map[int32]int32) map[int32]int32 {
	if m == nil {
		return nil
	}
	out := make(map[int32]int32, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyColorTable(t [][3]uint8) [][3]uint8 {
	if t == nil {
		return nil
	}
	return append([][3]uint8(nil), t...)
}
