// Package catalog provides the GRIB2 parameter reference table for the NCAR
// real-time ensemble archive.
//
// # Data Source
//
// The table originates from the NCAR/CISL Research Data Archive copy of the
// experimental 10-member 3-km ensemble (ds300.0). GRIB2 files follow the
// naming convention
//
//	%Y/%Y%m%d/ncar_3km_%Y%m%d%H_mem{N}_f{FFF}.grb2
//
// with members 1-10 and forecast hours 0-48. The table is the configuration
// input for wgrib2-style inventory and rename tooling: each row binds a short
// variable name to the GRIB2 (discipline, parameter category, parameter
// number) triple plus a vertical level.
//
// # Table Conventions
//
// Two serialized forms carry the same records:
//
//   - the compact comma form, 8 fields per line, comment lines prefixed "#";
//   - the documentation pipe form, 9 columns, where the leading column is a
//     human-facing row index with no semantic content.
//
// Level types are written as "<description> (<GRIB2 code>)", e.g.
// "height above ground (103)". Long names may end in provenance markers:
// a single "*" marks fields diagnosed by the model post-processor, "**" marks
// fields derived downstream from native fields. The markers are informational
// only; no computation depends on them. Units are "-" for categorical fields.
//
// # Keys
//
// A variable name alone is not unique: MSLP appears at two level values for
// the two sea-level pressure reductions present in the archive. The canonical
// composite key is (discipline, category, parameter, level value);
// (variable, level value) is equivalently unique and backs name lookups.
//
// The table is immutable once loaded and safe for concurrent readers.
package catalog
