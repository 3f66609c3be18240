// Package inventory models wgrib2-style inventory lines for the NCAR
// ensemble archive and joins them against the parameter catalog.
//
// # Data Source
//
// An upstream collector walks the GRIB2 archive, runs each file through a
// wgrib2-style inventory pass with the catalog as its rename table, and
// publishes one message per field to the Kafka source topic as flat JSON:
//
//	{"file": "2017/20170421/ncar_3km_2017042100_mem1_f012.grb2",
//	 "line": "1:0:d=2017042100:REFC:entire atmosphere:12 hour fcst:"}
//
// # Conventions
//
// File names encode the forecast run:
//
//	ncar_3km_%Y%m%d%H_mem{N}_f{FFF}.grb2
//	init time in UTC, member N in 1-10, forecast hour FFF in 0-48.
//	Pre-September-2015 files carry a ".grb" suffix (GRIB1 era) and are
//	accepted with the same name grammar.
//
// Inventory lines are colon-delimited:
//
//	<message number>:<byte offset>:d=<YYYYMMDDHH>:<variable>:<level>:<forecast>:
//
// The variable column carries the catalog's short name (the rename table is
// exactly what wgrib2 was configured with), so the join back to the catalog is
// by name, disambiguated by the numeric level bound in the level text when a
// name spans multiple levels. The d= stamp must agree with the init time in
// the file name; a mismatch marks a corrupt inventory.
package inventory
