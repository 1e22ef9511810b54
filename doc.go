// File: trempy/initfile/doc.go

// Package initfile reads the plain-text initialization files that configure a
// trempy estimation run: the utility-function variant, simulation and estimation
// settings, optimizer options, per-question parameters and response cutoffs.
//
// Features:
//   - Shell-style tokenizing with quote handling and comment lines
//   - Group-scoped parsing with per-variant group legality
//   - Typed values (int, float, string, bool, absent) chosen by flag name and variant
//   - Coefficient lines with fixed markers and bound expressions
//   - Registered default bounds, overridable from a TOML file
//   - Cutoff tables completed over the full question universe
//   - Typed section decoding, parameter collections and file watching
//
// File format:
//
//	VERSION
//	version     scaled_archimedean
//
//	SIMULATION
//	agents      100
//	seed        123
//	file        data.trempy.pkl
//
//	UNIATTRIBUTE SELF
//	r           0.50   (0.01,None)
//	max         100
//	marginal    power
//
//	QUESTIONS
//	1           0.20   !
//	2           0.30   !  (0.05,0.50)
//
//	CUTOFFS
//	1           None   5.00
//
// A line whose first token is upper case opens a group; the whole line is the
// group name. Other lines are "flag value [extra...]" records of the open group.
//
// Quick Start:
//
//	dict, err := initfile.Load("model.trempy.ini")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	model, err := initfile.NewModel(dict, nil)
//
// Errors:
// Every parse failure wraps one of the package's sentinel errors and, for line
// level problems, is reported as a *ParseError carrying the file and line.
// Unknown groups are skipped rather than rejected.
package initfile
