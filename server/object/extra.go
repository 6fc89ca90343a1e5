// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"context"
	"regexp"
	"slices"
	"strings"
)

var whitespace = regexp.MustCompile(`\s+`)

// ThumbnailHash returns the thumbnail digest of the given type (e.g. "md5").
// Hashes are stored as "urn:<type>:<digest>".
func (r *Record) ThumbnailHash(ctx context.Context, hashType string) (string, error) {
	details, err := r.ExtraDetails(ctx)
	if err != nil {
		return "", err
	}

	for _, hash := range details.ThumbnailHashes {
		parts := strings.Split(hash, ":")
		if len(parts) > 2 && parts[1] == hashType {
			return parts[2], nil
		}
	}

	return "", nil
}

// TechnicalValues returns all values of a technical metadata field.
func (r *Record) TechnicalValues(ctx context.Context, name string) ([]string, error) {
	details, err := r.ExtraDetails(ctx)
	if err != nil {
		return nil, err
	}

	return slices.Clone(details.Technical[name]), nil
}

// TechnicalValue returns the first value of a technical metadata field.
func (r *Record) TechnicalValue(ctx context.Context, name string) (string, error) {
	values, err := r.TechnicalValues(ctx, name)
	if err != nil || len(values) == 0 {
		return "", err
	}

	return values[0], nil
}

func (r *Record) FileSize(ctx context.Context) (string, error) {
	return r.TechnicalValue(ctx, "size")
}

func (r *Record) ImageHeight(ctx context.Context) (string, error) {
	return r.TechnicalValue(ctx, "imageHeight")
}

func (r *Record) ImageWidth(ctx context.Context) (string, error) {
	return r.TechnicalValue(ctx, "imageWidth")
}

func (r *Record) MimeType(ctx context.Context) ([]string, error) {
	return r.TechnicalValues(ctx, "mimetype")
}

// FullText returns the extracted text with whitespace runs collapsed to one space.
func (r *Record) FullText(ctx context.Context) ([]string, error) {
	details, err := r.ExtraDetails(ctx)
	if err != nil {
		return nil, err
	}

	text := make([]string, 0, len(details.FullText))
	for _, str := range details.FullText {
		text = append(text, whitespace.ReplaceAllString(str, " "))
	}

	return text, nil
}

// License returns the first license URL, or an empty string.
func (r *Record) License(ctx context.Context) (string, error) {
	details, err := r.ExtraDetails(ctx)
	if err != nil || len(details.LicenseURLs) == 0 {
		return "", err
	}

	return details.LicenseURLs[0], nil
}
