// Package ui provides semantic text formatting for CLI output.
//
// Formatters render with color when the terminal supports it and fall back
// to text decorations when NO_COLOR is set or color is unavailable:
//
//	ui.Code.Sprint("devforge secrets init")  // `devforge secrets init`
//	ui.Name.Sprint("API_KEY")                // 'API_KEY'
//	ui.Rule.Sprint("aws_access_key")         // [aws_access_key]
//	ui.Muted.Sprint("keyring")               // (keyring)
//
// SuccessLine, FailureLine and HintLine build the ✓ / ✗ / → lines used in
// command summaries.
package ui
