/*
Package setupforge compiles declarative setup scripts into self-contained
Windows installers. A script describes an application in five sections:

	[Setup]
	AppName=DOW 30 Excel Dashboard
	AppVersion=1.4.0
	DefaultDirName={autopf}\DOW30ExcelDashboard
	DefaultGroupName=DOW 30 Excel Dashboard

	[Tasks]
	Name: "desktopicon"; Description: "Create a desktop icon"; Flags: unchecked

	[Files]
	Source: "DOW30_Excel_Dashboard.exe"; DestDir: "{app}"; Flags: ignoreversion

	[Icons]
	Name: "{group}\DOW 30 Excel Dashboard"; Filename: "{app}\DOW30_Excel_Dashboard.exe"
	Name: "{autodesktop}\DOW 30 Excel Dashboard"; Filename: "{app}\DOW30_Excel_Dashboard.exe"; Tasks: desktopicon

	[Run]
	Filename: "{app}\DOW30_Excel_Dashboard.exe"; Flags: nowait postinstall skipifsilent

# Building

Build parses and validates a script, resolves its source files, and
appends the compressed payload to a prebuilt stub executable:

	result, err := setupforge.Build("dow30.iss",
		setupforge.WithStub("setupstub.exe"),
		setupforge.WithOutputDir("dist"),
	)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("wrote", result.OutputPath)

The resulting executable carries a manifest plus every resolved file.
When run on the target machine it requests elevation if the script asks
for it, resolves {app} and the other path constants, copies files with
version gating, creates shortcuts, and launches the configured post
install commands.

# Path constants

Templates in scripts use brace-wrapped constants that resolve on the
target machine: {app} is the chosen install directory, {autopf} the
per-mode Program Files root, {group} the Start Menu group, {autodesktop}
the desktop, and so on. Write {{ for a literal brace.

# Validation

Validate enforces the cross-reference rules: every [Icons] target must
match the resulting install path of a [Files] entry, every task a
shortcut names must be declared in [Tasks], and check expressions must
compile. Scripts that fail validation are rejected before anything is
packed.
*/
package setupforge
