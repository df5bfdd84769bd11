package sql

import (
	"embed"
)

//go:embed migrations
var Migrations embed.FS

//go:embed queries/register_run.sql
var RegisterRun string

//go:embed queries/update_run_status.sql
var UpdateRunStatus string

//go:embed queries/finalize_run.sql
var FinalizeRun string
