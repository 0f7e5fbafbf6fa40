// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names every table and column the repositories touch.
//
// Queries are assembled with fmt.Sprintf over these values so that a column
// rename is a one-line change here rather than a grep across every store.
package schema
