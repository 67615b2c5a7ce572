package device

// User-facing texts. Message is the headline, the *Detail strings are the
// longer explanation shown under it.
const (
	msgNoDevice = "Could not find an attached BBC micro:bit."

	msgReplConflict       = "REPL and file system cannot work at the same time."
	msgReplConflictDetail = "The REPL and file system both use the same USB serial connection. " +
		"Only one can be active at any time. Toggle the file system off and try again."

	msgFilesystemConflict       = "File system and REPL cannot work at the same time."
	msgFilesystemConflictDetail = "The file system and REPL both use the same USB serial connection. " +
		"Only one can be active at any time. Toggle the REPL off and try again."

	msgReplNotFoundDetail = "Please make sure the device is plugged into this computer.\n\n" +
		"The device must have MicroPython flashed onto it before the REPL will work.\n\n" +
		"Finally, press the device's reset button and wait a few seconds before trying again."

	msgFilesystemNotFoundDetail = "Please make sure the device is plugged into this computer.\n\n" +
		"The device must have MicroPython flashed onto it before the file system will work.\n\n" +
		"Finally, press the device's reset button and wait a few seconds before trying again."

	msgReplOpenFailedDetail = "Click the device's reset button, wait a few seconds and then try again."

	msgScriptTooLongFmt    = "Unable to flash \"%s\""
	msgScriptTooLongDetail = "Your script is too long!"

	msgFlashingFmt     = "Flashing \"%s\" onto the micro:bit."
	msgFlashingRuntime = "\nRuntime: "
	msgFlashingDetail  = "When the yellow LED stops flashing the device will restart and your script will run. " +
		"If there is an error, you'll see a helpful message scroll across the device's display."

	msgFlashNotFoundDetail = "Please ensure you leave enough time for the BBC micro:bit to be attached " +
		"and configured correctly by your computer. This may take several seconds. " +
		"Alternatively, try removing and re-attaching the device or saving your work " +
		"and restarting the editor if the device remains unfound."

	msgFlashFailedFmt    = "Could not flash \"%s\"."
	msgFlashFailedDetail = "Writing to the device failed. Check it is still attached and try again."
)
