package command

// helpPrompt points users at the help command.
const helpPrompt = "Use " + Marker + "help for instructions."

const (
	msgNoMarker   = "Commands begin with '" + Marker + "'."
	msgWrongUsage = "Wrong usage. " + helpPrompt
	msgInvalid    = "Invalid command. " + helpPrompt
	msgInternal   = "Err: The command could not be completed."
)

// HelpText is returned by the help command.
const HelpText = `Replace the text in caps with its corresponding value.
Every Person has a name and description.
Every List has a name and may contain one or more Persons.

?info (NAME)
Returns the description for a given Person.

?names (LIST NAME)
Returns all Person names in one list.

?lists
Returns every List name

?allnames
Returns all Person names across all Lists

?update (NAME) (DESCRIPTION TEXT)
Adds onto the existing description text for a given Person.`
