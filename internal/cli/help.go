package cli

const helpText = `Commands:
  list                 reload and print the hero list
  select <id>          select a hero from the list
  show                 print the selected hero
  get <id>             fetch one hero from the server
  add <name>           create a hero
  rename <id> <name>   replace a hero's name
  delete <id>          delete a hero
  search <term>        find heroes whose name contains term
  messages             print the service message log
  clear                clear the message log
  watch | unwatch      follow server-side changes
  help                 show this text
  exit | quit          leave
`
