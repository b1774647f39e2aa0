/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

import "github.com/gopdfcore/pdfcore/common"

// GetVersion returns the module version string, for inclusion in debug
// logs and producer metadata.
func GetVersion() string {
	return common.Version
}

// versionBanner formats the version and release date together, the way
// a debug trace line identifies which build produced a log.
func versionBanner() string {
	return common.Version + " (" + common.ReleasedAt.Format("2006-01-02") + ")"
}
