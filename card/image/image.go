package image

import (
	"fmt"
	"os"

	"github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/disk"
	"github.com/diskfs/go-diskfs/filesystem"
	"github.com/diskfs/go-diskfs/partition/mbr"

	"github.com/ardnew/softsd/pkg"
)

// SectorSize is the sector granularity of generated images.
const SectorSize = 512

// partitionStart is the first partition sector (1 MiB alignment).
const partitionStart = 2048

// Create writes a zero-filled raw card image of the given size, which
// must be a positive multiple of SectorSize.
func Create(path string, size int64) error {
	if size <= 0 || size%SectorSize != 0 {
		return fmt.Errorf("image size %d: %w", size, pkg.ErrInvalidParameter)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("size image: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close image: %w", err)
	}

	pkg.LogInfo(pkg.ComponentStore, "raw image created", "path", path, "size", size)
	return nil
}

// CreateFAT32 writes a card image of the given size containing an MBR
// with a single FAT32 partition. size must be a positive multiple of
// SectorSize and large enough for a FAT32 filesystem.
func CreateFAT32(path string, size int64, label string) error {
	if size <= 0 || size%SectorSize != 0 {
		return fmt.Errorf("image size %d: %w", size, pkg.ErrInvalidParameter)
	}

	dsk, err := diskfs.Create(path, size, diskfs.SectorSizeDefault)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}

	table := &mbr.Table{
		LogicalSectorSize:  SectorSize,
		PhysicalSectorSize: SectorSize,
		Partitions: []*mbr.Partition{
			{
				Bootable: false,
				Type:     mbr.Fat32LBA,
				Start:    partitionStart,
				Size:     uint32(size/SectorSize) - partitionStart,
			},
		},
	}
	if err := dsk.Partition(table); err != nil {
		os.Remove(path)
		return fmt.Errorf("partition image: %w", err)
	}

	if _, err := dsk.CreateFilesystem(disk.FilesystemSpec{
		Partition:   1,
		FSType:      filesystem.TypeFat32,
		VolumeLabel: label,
	}); err != nil {
		os.Remove(path)
		return fmt.Errorf("format image: %w", err)
	}

	pkg.LogInfo(pkg.ComponentStore, "FAT32 image created",
		"path", path,
		"size", size,
		"label", label)
	return nil
}
